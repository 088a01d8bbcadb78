package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestTelegramNotifier_Notify(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegramNotifier(sender, -100)

	require.NoError(t, n.Notify(context.Background(), "done"))
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0].(tgbotapi.MessageConfig)
	require.Equal(t, int64(-100), msg.ChatID)
	require.Equal(t, "done", msg.Text)
}

func TestTelegramNotifier_TruncatesLongText(t *testing.T) {
	sender := &fakeSender{}
	n := NewTelegramNotifier(sender, 1)

	require.NoError(t, n.Notify(context.Background(), strings.Repeat("я", telegramLimit+10)))
	msg := sender.sent[0].(tgbotapi.MessageConfig)
	require.Len(t, []rune(msg.Text), telegramLimit)
}

func TestTelegramNotifier_Error(t *testing.T) {
	n := NewTelegramNotifier(&fakeSender{err: errors.New("forbidden")}, 1)
	require.ErrorContains(t, n.Notify(context.Background(), "x"), "forbidden")
}

func TestNew_NoopWithoutChat(t *testing.T) {
	n, err := New("token", 0, "", nil)
	require.NoError(t, err)
	require.IsType(t, Noop{}, n)
	require.NoError(t, n.Notify(context.Background(), "x"))

	n, err = New("", 5, "", nil)
	require.NoError(t, err)
	require.IsType(t, Noop{}, n)
}

func TestNew_SendsThroughBotAPI(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
		texts []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		mu.Lock()
		paths = append(paths, r.URL.Path)
		texts = append(texts, r.FormValue("text"))
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/getMe") {
			w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"kwh","username":"kwh_bot"}}`))
			return
		}
		w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"group"}}}`))
	}))
	defer srv.Close()

	n, err := New("TOKEN", 42, srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)
	require.NoError(t, n.Notify(context.Background(), "Проверено: 3"))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"/botTOKEN/getMe", "/botTOKEN/sendMessage"}, paths)
	require.Equal(t, "Проверено: 3", texts[1])
}
