package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/SundayYogurt/store_service/internal/helper"
	"github.com/SundayYogurt/store_service/internal/interfaces"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type published struct {
	key   string
	value []byte
}

type fakeProducer struct {
	mu   sync.Mutex
	msgs []published
}

func (p *fakeProducer) PublishMessage(key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{key: string(key), value: value})
	return nil
}

func (p *fakeProducer) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.msgs))
	for _, m := range p.msgs {
		out = append(out, m.key)
	}
	return out
}

func (p *fakeProducer) decodeLast(t *testing.T, v any) {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.msgs)
	require.NoError(t, json.Unmarshal(p.msgs[len(p.msgs)-1].value, v))
}

type fakeUploader struct {
	folder string
	data   []byte
}

func (u *fakeUploader) UploadBytes(_ context.Context, folder, filename string, b []byte) (*interfaces.UploadResult, error) {
	u.folder = folder
	u.data = b
	return &interfaces.UploadResult{URL: "https://cdn.example.com/" + filename + ".jpg", PublicID: folder + "/" + filename}, nil
}

func testAuth() helper.Auth {
	a := helper.SetupAuth("test-secret")
	a.Cost = bcrypt.MinCost
	return a
}
