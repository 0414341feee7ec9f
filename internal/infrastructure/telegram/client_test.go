package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/botflow/config"
	"github.com/Conte777/botflow/internal/infrastructure/metrics"
)

const testToken = "123456:TEST-token"

type apiCall struct {
	method string
	params map[string]string
}

// fakeBotAPI records calls and answers each method with the configured reply
type fakeBotAPI struct {
	mu      sync.Mutex
	calls   []apiCall
	replies map[string]func(params map[string]string) string
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	params := readParams(r)

	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: method, params: params})
	reply, ok := f.replies[method]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
		return
	}
	_, _ = w.Write([]byte(reply(params)))
}

func (f *fakeBotAPI) callsTo(method string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []apiCall
	for _, c := range f.calls {
		if c.method == method {
			result = append(result, c)
		}
	}
	return result
}

func readParams(r *http.Request) map[string]string {
	params := make(map[string]string)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var raw map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&raw)
		for k, v := range raw {
			switch vv := v.(type) {
			case string:
				params[k] = vv
			default:
				b, _ := json.Marshal(vv)
				params[k] = string(b)
			}
		}
		return params
	}

	if err := r.ParseMultipartForm(1 << 20); err == nil && r.MultipartForm != nil {
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}
		return params
	}

	_ = r.ParseForm()
	for k := range r.Form {
		params[k] = r.Form.Get(k)
	}
	return params
}

func newTestClient(t *testing.T, api *fakeBotAPI) *Client {
	t.Helper()

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := &config.TelegramConfig{
		APIURL:         srv.URL,
		RequestTimeout: 5 * time.Second,
		BulkBatchSize:  30,
		BulkBatchDelay: time.Second,
		WebhookSecret:  "s3cret",
	}
	return NewClient(cfg, metrics.NewMetrics(prometheus.NewRegistry()), zerolog.Nop())
}

func getMeReply(isBot bool) func(map[string]string) string {
	return func(map[string]string) string {
		return fmt.Sprintf(`{"ok":true,"result":{"id":777,"is_bot":%t,"first_name":"Shop Helper","username":"shop_helper_bot"}}`, isBot)
	}
}

func sendOK(params map[string]string) string {
	chatID := strings.Trim(params["chat_id"], `"`)
	return fmt.Sprintf(`{"ok":true,"result":{"message_id":11,"date":0,"chat":{"id":%s,"type":"private"}}}`, chatID)
}

func TestClient_ValidateCredential(t *testing.T) {
	t.Run("bot account", func(t *testing.T) {
		api := &fakeBotAPI{replies: map[string]func(map[string]string) string{"getMe": getMeReply(true)}}
		assert.True(t, newTestClient(t, api).ValidateCredential(context.Background(), testToken))
	})

	t.Run("user account", func(t *testing.T) {
		api := &fakeBotAPI{replies: map[string]func(map[string]string) string{"getMe": getMeReply(false)}}
		assert.False(t, newTestClient(t, api).ValidateCredential(context.Background(), testToken))
	})

	t.Run("rejected token", func(t *testing.T) {
		api := &fakeBotAPI{replies: map[string]func(map[string]string) string{
			"getMe": func(map[string]string) string {
				return `{"ok":false,"error_code":401,"description":"Unauthorized"}`
			},
		}}
		assert.False(t, newTestClient(t, api).ValidateCredential(context.Background(), testToken))
	})

	t.Run("unreachable provider", func(t *testing.T) {
		cfg := &config.TelegramConfig{APIURL: "http://127.0.0.1:1", RequestTimeout: time.Second, BulkBatchSize: 30}
		client := NewClient(cfg, metrics.NewMetrics(prometheus.NewRegistry()), zerolog.Nop())
		assert.False(t, client.ValidateCredential(context.Background(), testToken))
	})
}

func TestClient_FetchIdentity(t *testing.T) {
	api := &fakeBotAPI{replies: map[string]func(map[string]string) string{"getMe": getMeReply(true)}}
	client := newTestClient(t, api)

	identity, err := client.FetchIdentity(context.Background(), testToken)
	require.NoError(t, err)
	assert.Equal(t, int64(777), identity.ProviderID)
	assert.Equal(t, "Shop Helper", identity.DisplayName)
	assert.Equal(t, "shop_helper_bot", identity.Username)
}

func TestClient_FetchIdentityError(t *testing.T) {
	api := &fakeBotAPI{replies: map[string]func(map[string]string) string{
		"getMe": func(map[string]string) string {
			return `{"ok":false,"error_code":401,"description":"Unauthorized"}`
		},
	}}
	client := newTestClient(t, api)

	identity, err := client.FetchIdentity(context.Background(), testToken)
	assert.Nil(t, identity)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "getMe", pe.Method)
	assert.True(t, pe.Unauthorized())
}

func TestClient_RegisterWebhook(t *testing.T) {
	api := &fakeBotAPI{replies: map[string]func(map[string]string) string{
		"setWebhook": func(map[string]string) string { return `{"ok":true,"result":true}` },
	}}
	client := newTestClient(t, api)

	ok := client.RegisterWebhook(context.Background(), testToken, "https://bots.example.com/api/webhook/b1")
	require.True(t, ok)

	calls := api.callsTo("setWebhook")
	require.Len(t, calls, 1)
	assert.Equal(t, "https://bots.example.com/api/webhook/b1", calls[0].params["url"])
	assert.Equal(t, "s3cret", calls[0].params["secret_token"])

	var allowed []string
	require.NoError(t, json.Unmarshal([]byte(calls[0].params["allowed_updates"]), &allowed))
	assert.Equal(t, []string{"message", "callback_query", "inline_query"}, allowed)
}

func TestClient_RegisterWebhookRejected(t *testing.T) {
	api := &fakeBotAPI{replies: map[string]func(map[string]string) string{
		"setWebhook": func(map[string]string) string {
			return `{"ok":false,"error_code":400,"description":"Bad Request: bad webhook: HTTPS url must be provided for webhook"}`
		},
	}}
	client := newTestClient(t, api)

	assert.False(t, client.RegisterWebhook(context.Background(), testToken, "http://insecure"))
}

func TestClient_SendMessage(t *testing.T) {
	api := &fakeBotAPI{replies: map[string]func(map[string]string) string{"sendMessage": sendOK}}
	client := newTestClient(t, api)

	handle, err := client.SendMessage(context.Background(), testToken, "42", "hello", SendOptions{ParseMode: "HTML"})
	require.NoError(t, err)
	assert.Equal(t, 11, handle.MessageID)
	assert.Equal(t, int64(42), handle.ChatID)

	calls := api.callsTo("sendMessage")
	require.Len(t, calls, 1)
	assert.Equal(t, "42", strings.Trim(calls[0].params["chat_id"], `"`))
	assert.Equal(t, "hello", calls[0].params["text"])
	assert.Equal(t, "HTML", calls[0].params["parse_mode"])
}

func TestClient_SendMessageForbidden(t *testing.T) {
	api := &fakeBotAPI{replies: map[string]func(map[string]string) string{
		"sendMessage": func(map[string]string) string {
			return `{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`
		},
	}}
	client := newTestClient(t, api)

	handle, err := client.SendMessage(context.Background(), testToken, "42", "hello", SendOptions{})
	assert.Nil(t, handle)

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.True(t, pe.Forbidden())
	assert.False(t, pe.RateLimited())
	assert.Contains(t, pe.Description, "bot was blocked by the user")
	assert.Equal(t, "forbidden", sendResult(err))
}

func TestClient_SendMessageRateLimited(t *testing.T) {
	api := &fakeBotAPI{replies: map[string]func(map[string]string) string{
		"sendMessage": func(map[string]string) string {
			return `{"ok":false,"error_code":429,"description":"Too Many Requests: retry after 3","parameters":{"retry_after":3}}`
		},
	}}
	client := newTestClient(t, api)

	_, err := client.SendMessage(context.Background(), testToken, "42", "hello", SendOptions{})

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.True(t, pe.RateLimited())
	assert.Equal(t, "rate_limited", sendResult(err))
}

func TestClient_SendBulk(t *testing.T) {
	var sent int32
	api := &fakeBotAPI{replies: map[string]func(map[string]string) string{
		"sendMessage": func(params map[string]string) string {
			atomic.AddInt32(&sent, 1)
			chatID := strings.Trim(params["chat_id"], `"`)
			if chatID == "13" || chatID == "50" {
				return `{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`
			}
			return sendOK(params)
		},
	}}
	client := newTestClient(t, api)

	var sentAtWait []int32
	client.wait = func(ctx context.Context, d time.Duration) error {
		assert.Equal(t, time.Second, d)
		sentAtWait = append(sentAtWait, atomic.LoadInt32(&sent))
		return nil
	}

	recipients := make([]string, 65)
	for i := range recipients {
		recipients[i] = fmt.Sprintf("%d", i+1)
	}

	result := client.SendBulk(context.Background(), testToken, recipients, "promo", SendOptions{})

	assert.Equal(t, 63, result.Success)
	assert.Equal(t, 2, result.Failed)
	assert.Contains(t, result.Failures, "13")
	assert.Contains(t, result.Failures, "50")
	assert.Equal(t, int32(65), atomic.LoadInt32(&sent))
	// no delay after the last batch
	assert.Equal(t, []int32{30, 60}, sentAtWait)
}

func TestClient_SendBulkSingleBatchNoDelay(t *testing.T) {
	api := &fakeBotAPI{replies: map[string]func(map[string]string) string{"sendMessage": sendOK}}
	client := newTestClient(t, api)

	waits := 0
	client.wait = func(context.Context, time.Duration) error {
		waits++
		return nil
	}

	result := client.SendBulk(context.Background(), testToken, []string{"1", "2", "3"}, "hi", SendOptions{})
	assert.Equal(t, 3, result.Success)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 0, waits)
}

func TestClient_SendBulkEmpty(t *testing.T) {
	api := &fakeBotAPI{replies: map[string]func(map[string]string) string{"sendMessage": sendOK}}
	client := newTestClient(t, api)

	result := client.SendBulk(context.Background(), testToken, nil, "hi", SendOptions{})
	assert.Equal(t, 0, result.Success)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, api.callsTo("sendMessage"))
}

func TestClient_SendBulkInterrupted(t *testing.T) {
	api := &fakeBotAPI{replies: map[string]func(map[string]string) string{"sendMessage": sendOK}}
	client := newTestClient(t, api)
	client.batchSize = 2
	client.wait = func(context.Context, time.Duration) error {
		return context.Canceled
	}

	result := client.SendBulk(context.Background(), testToken, []string{"1", "2", "3", "4", "5"}, "hi", SendOptions{})
	assert.Equal(t, 2, result.Success)
	assert.Equal(t, 3, result.Failed)
	assert.True(t, errors.Is(result.Failures["5"], context.Canceled))
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))
}
