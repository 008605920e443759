package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/sciarticles/internal/models"
	"github.com/pribylovaa/sciarticles/internal/session"
	"github.com/pribylovaa/sciarticles/mocks"
)

// TestRefresh_TransparentRetry: истёкший access-токен восстанавливается
// незаметно для вызывающего — 401, обновление по refresh-токену, повтор
// исходного запроса с новым access-токеном, обычный результат.
func TestRefresh_TransparentRetry(t *testing.T) {
	t.Parallel()

	var refreshCalls, articleCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		// Учётные данные refresh — refresh-токен, и в заголовке, и в теле.
		require.Equal(t, "Bearer R1", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "R1", body["refresh_token"])

		writeData(w, http.StatusOK, `{"tokens":{"access_token":"A2","refresh_token":"R2"}}`)
	})
	mux.HandleFunc("/api/articles/user/1", func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&articleCalls, 1) {
		case 1:
			require.Equal(t, "Bearer A1", r.Header.Get("Authorization"))
			writeMessage(w, http.StatusUnauthorized, "401 Unauthorized: Token has expired.")
		default:
			// Повтор обязан идти уже с новым токеном.
			require.Equal(t, "Bearer A2", r.Header.Get("Authorization"))
			writeData(w, http.StatusOK, `{"articles":[]}`)
		}
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := session.NewMemory()
	store.Set(seedSession())
	cl := testClient(t, store, srv.URL)

	articles, err := cl.ArticlesByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, articles)

	require.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
	require.EqualValues(t, 2, atomic.LoadInt32(&articleCalls))

	// Новая пара токенов записана в сессию, пользователь сохранён.
	s, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "A2", s.Tokens.AccessToken)
	require.Equal(t, "R2", s.Tokens.RefreshToken)
	require.Equal(t, int64(1), s.User.ID)
}

// TestRefresh_SingleFlight: N конкурентных 401 — ровно один refresh,
// все запросы завершаются успешно с новым токеном.
func TestRefresh_SingleFlight(t *testing.T) {
	t.Parallel()

	const n = 8

	var (
		refreshCalls int32
		arrived      int32
	)
	release := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		// Даём всем 401-ответам дойти до своих горутин.
		time.Sleep(250 * time.Millisecond)
		writeData(w, http.StatusOK, `{"tokens":{"access_token":"A2","refresh_token":"R2"}}`)
	})
	mux.HandleFunc("/api/articles/user/1", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer A1" {
			// Первая волна: держим всех до полного сбора, затем
			// отказываем одновременно.
			if atomic.AddInt32(&arrived, 1) == n {
				close(release)
			}
			<-release
			writeMessage(w, http.StatusUnauthorized, "401 Unauthorized: Token has expired.")
			return
		}

		require.Equal(t, "Bearer A2", r.Header.Get("Authorization"))
		writeData(w, http.StatusOK, `{"articles":[]}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := session.NewMemory()
	store.Set(seedSession())
	cl := testClient(t, store, srv.URL)

	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cl.ArticlesByUser(context.Background(), 1)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "request %d", i)
	}
	require.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
}

// TestRefresh_NotTriggeredOnLogin: 401 на login — неверные учётные данные,
// refresh-эндпойнт не трогается.
func TestRefresh_NotTriggeredOnLogin(t *testing.T) {
	t.Parallel()

	var refreshCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		writeData(w, http.StatusOK, `{"tokens":{"access_token":"A2","refresh_token":"R2"}}`)
	})
	mux.HandleFunc(loginPath, func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusUnauthorized, "401 Unauthorized: Invalid Credentials.")
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := session.NewMemory()
	store.Set(seedSession())
	cl := testClient(t, store, srv.URL)

	_, err := cl.Login(context.Background(), "a@b.com", "wrong00")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Zero(t, atomic.LoadInt32(&refreshCalls))

	// Действующая сессия не тронута.
	s, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "A1", s.Tokens.AccessToken)
}

// TestRefresh_NotTriggeredOnOldPassword: 401 с точным текстом про старый
// пароль — ошибка ввода, без refresh и без logout.
func TestRefresh_NotTriggeredOnOldPassword(t *testing.T) {
	t.Parallel()

	var refreshCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		writeData(w, http.StatusOK, `{"tokens":{"access_token":"A2","refresh_token":"R2"}}`)
	})
	mux.HandleFunc("/api/users/1/password", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusUnauthorized, OldPasswordMessage)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := session.NewMemory()
	store.Set(seedSession())
	cl := testClient(t, store, srv.URL)

	err := cl.UpdatePassword(context.Background(), 1, "oldpass", "newpass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Zero(t, atomic.LoadInt32(&refreshCalls))

	_, ok := store.Get()
	require.True(t, ok)
}

// TestRefresh_FailureLogsOut: отказ refresh-эндпойнта терминален — сессия
// очищена, вызывающий получает ErrSessionExpired.
func TestRefresh_FailureLogsOut(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusUnauthorized, "401 Unauthorized: Invalid refresh token.")
	})
	mux.HandleFunc("/api/articles/user/1", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusUnauthorized, "401 Unauthorized: Token has expired.")
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := session.NewMemory()
	store.Set(seedSession())
	cl := testClient(t, store, srv.URL)

	_, err := cl.ArticlesByUser(context.Background(), 1)
	require.ErrorIs(t, err, ErrSessionExpired)

	_, ok := store.Get()
	require.False(t, ok)
}

// TestRefresh_SingleRetryBound: повторный 401 после успешного refresh
// не запускает второй цикл — ошибка уходит вызывающему, refresh ровно один.
func TestRefresh_SingleRetryBound(t *testing.T) {
	t.Parallel()

	var refreshCalls, articleCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		writeData(w, http.StatusOK, `{"tokens":{"access_token":"A2","refresh_token":"R2"}}`)
	})
	mux.HandleFunc("/api/articles/user/1", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&articleCalls, 1)
		writeMessage(w, http.StatusUnauthorized, "401 Unauthorized: Token has expired.")
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := session.NewMemory()
	store.Set(seedSession())
	cl := testClient(t, store, srv.URL)

	_, err := cl.ArticlesByUser(context.Background(), 1)
	require.ErrorIs(t, err, ErrSessionExpired)

	require.EqualValues(t, 1, atomic.LoadInt32(&refreshCalls))
	require.EqualValues(t, 2, atomic.LoadInt32(&articleCalls))

	// Refresh удался — logout не выполняется, сессия живёт с новой парой.
	s, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "A2", s.Tokens.AccessToken)
}

// TestRefresh_KeepsRefreshTokenWhenOmitted: ответ только с access-токеном
// оставляет прежний refresh-токен.
func TestRefresh_KeepsRefreshTokenWhenOmitted(t *testing.T) {
	t.Parallel()

	var articleCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, `{"tokens":{"access_token":"A2"}}`)
	})
	mux.HandleFunc("/api/articles/user/1", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&articleCalls, 1) == 1 {
			writeMessage(w, http.StatusUnauthorized, "401 Unauthorized: Token has expired.")
			return
		}
		writeData(w, http.StatusOK, `{"articles":[]}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := session.NewMemory()
	store.Set(seedSession())
	cl := testClient(t, store, srv.URL)

	_, err := cl.ArticlesByUser(context.Background(), 1)
	require.NoError(t, err)

	s, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "A2", s.Tokens.AccessToken)
	require.Equal(t, "R1", s.Tokens.RefreshToken)
}

// TestRefresher_NoSession: refresh без активной сессии — ошибка без
// сетевого вызова и без Set/Clear.
func TestRefresher_NoSession(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Get().Return(nil, false)

	rf := &refresher{
		store: store,
		do: func(ctx context.Context, req *Request) (*Response, error) {
			t.Fatal("unexpected network call")
			return nil, nil
		},
	}

	_, err := rf.Refresh(context.Background())
	require.Error(t, err)
}

// TestRefresher_ReadsCurrentToken: refresh-токен читается из хранилища
// в момент выполнения; успех записывает новую пару одним Set.
func TestRefresher_ReadsCurrentToken(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Get().Return(&models.Session{
		Tokens: models.Tokens{AccessToken: "A1", RefreshToken: "R9"},
		User:   models.User{ID: 1},
	}, true)
	store.EXPECT().Set(gomock.Any()).Do(func(s *models.Session) {
		require.Equal(t, "A2", s.Tokens.AccessToken)
		require.Equal(t, "R10", s.Tokens.RefreshToken)
		require.Equal(t, int64(1), s.User.ID)
	})

	rf := &refresher{
		store: store,
		do: func(ctx context.Context, req *Request) (*Response, error) {
			require.Equal(t, "Bearer R9", req.Header.Get("Authorization"))
			return &Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{},
				Body:       []byte(`{"data":{"tokens":{"access_token":"A2","refresh_token":"R10"}},"status":"success"}`),
			}, nil
		},
	}

	tokens, err := rf.Refresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "A2", tokens.AccessToken)
	require.Equal(t, "R10", tokens.RefreshToken)
}

// TestRefresher_ClearsOnMalformedResponse: мусор вместо конверта —
// ошибка и очистка сессии.
func TestRefresher_ClearsOnMalformedResponse(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Get().Return(seedSession(), true)
	store.EXPECT().Clear()

	rf := &refresher{
		store: store,
		do: func(ctx context.Context, req *Request) (*Response, error) {
			return &Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{},
				Body:       []byte("not json"),
			}, nil
		},
	}

	_, err := rf.Refresh(context.Background())
	require.Error(t, err)
}

// TestRefresh_SurvivesCallerCancel: отмена контекста исходного вызова не
// обрывает сам refresh — сессия получает новую пару токенов.
func TestRefresh_SurvivesCallerCancel(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(100 * time.Millisecond)
		writeData(w, http.StatusOK, `{"tokens":{"access_token":"A2","refresh_token":"R2"}}`)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	store := session.NewMemory()
	store.Set(seedSession())

	rf := &refresher{
		store: store,
		do:    newHTTPDoer(&http.Client{}, srv.URL, "sciarticles-test"),
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	tokens, err := rf.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, "A2", tokens.AccessToken)

	s, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "A2", s.Tokens.AccessToken)
}
