package main

import "github.com/SundayYogurt/store_service/cmd"

func main() {
	cmd.Execute()
}
