package server

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jacobpatterson1549/mexican-train/db/user"
	"github.com/jacobpatterson1549/mexican-train/game"
	"github.com/jacobpatterson1549/mexican-train/server/log/logtest"
)

func TestNewServer(t *testing.T) {
	testLog := logtest.DiscardLogger
	var tokenizer mockTokenizer
	var userDao mockUserDao
	var lobby mockLobby
	var history mockHistory
	okParameters := Parameters{
		Logger:    testLog,
		Tokenizer: tokenizer,
		UserDao:   userDao,
		Lobby:     lobby,
		History:   history,
	}
	newServerTests := []struct {
		Parameters
		Config
		wantOk bool
		want   *Server
	}{
		{}, // no log
		{ // no tokenizer
			Parameters: Parameters{
				Logger: testLog,
			},
		},
		{ // no userDao
			Parameters: Parameters{
				Logger:    testLog,
				Tokenizer: tokenizer,
			},
		},
		{ // no lobby
			Parameters: Parameters{
				Logger:    testLog,
				Tokenizer: tokenizer,
				UserDao:   userDao,
			},
		},
		{ // no history
			Parameters: Parameters{
				Logger:    testLog,
				Tokenizer: tokenizer,
				UserDao:   userDao,
				Lobby:     lobby,
			},
		},
		{ // no stopDur
			Parameters: okParameters,
		},
		{ // bad cacheSec
			Parameters: okParameters,
			Config: Config{
				StopDur:  1 * time.Hour,
				CacheSec: -1,
			},
		},
		{ // missing httpsPort
			Parameters: okParameters,
			Config: Config{
				StopDur: 1 * time.Hour,
			},
		},
		{ // missing history limit
			Parameters: okParameters,
			Config: Config{
				StopDur:   1 * time.Hour,
				HTTPSPort: 443,
			},
		},
		{ // http redirect without tls files
			Parameters: okParameters,
			Config: Config{
				StopDur:      1 * time.Hour,
				HTTPPort:     80,
				HTTPSPort:    443,
				HistoryLimit: 10,
				TLSCertFile:  "cert.pem",
			},
		},
		{ // happy path
			Parameters: okParameters,
			Config: Config{
				StopDur:      1 * time.Hour,
				CacheSec:     86400,
				HTTPPort:     80,
				HTTPSPort:    443,
				HistoryLimit: 10,
				TLSCertFile:  "cert.pem",
				TLSKeyFile:   "key.pem",
				GameConfig: game.Config{
					MaxPip: 9,
				},
			},
			wantOk: true,
			want: &Server{
				log:   testLog,
				lobby: lobby,
				Config: Config{
					StopDur:      1 * time.Hour,
					CacheSec:     86400,
					HTTPPort:     80,
					HTTPSPort:    443,
					HistoryLimit: 10,
					TLSCertFile:  "cert.pem",
					TLSKeyFile:   "key.pem",
					GameConfig: game.Config{
						MaxPip: 9,
					},
				},
			},
		},
	}
	for i, test := range newServerTests {
		got, err := test.Config.NewServer(test.Parameters)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		// cannot use DeepEqual on Server because http.Server contains unexported fields:
		case !reflect.DeepEqual(test.want.log, got.log),
			!reflect.DeepEqual(test.want.lobby, got.lobby),
			test.want.Config != got.Config:
			t.Errorf("Test %v: server not copied from from arguments properly: %v", i, got)
		case got.HTTPServer == nil, got.HTTPSServer == nil:
			t.Errorf("Test %v: http servers not set", i)
		case got.HTTPServer.Addr != ":80", got.HTTPSServer.Addr != ":443":
			t.Errorf("Test %v: wanted server addresses to use ports, got %q and %q", i, got.HTTPServer.Addr, got.HTTPSServer.Addr)
		}
	}
}

func TestJSONHandler(t *testing.T) {
	cacheControl := "max-age=???"
	jsonHandlerTests := []struct {
		requestHeader http.Header
		wantHeader    http.Header
		wantGzip      bool
	}{
		{
			wantHeader: http.Header{
				"Cache-Control": {cacheControl},
				"Content-Type":  {"application/json"},
			},
		},
		{
			requestHeader: http.Header{
				"Accept-Encoding": {"gzip, deflate"},
			},
			wantHeader: http.Header{
				"Cache-Control":    {cacheControl},
				"Content-Encoding": {"gzip"},
				"Content-Type":     {"application/json"},
			},
			wantGzip: true,
		},
	}
	want := `{"double":9}`
	for i, test := range jsonHandlerTests {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/rules", nil)
		r.Header = test.requestHeader
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(want))
		})
		jh := jsonHandler(h, cacheControl)
		jh.ServeHTTP(w, r)
		gotHeader := w.Header()
		got := w.Body.String()
		if test.wantGzip {
			gr, err := gzip.NewReader(w.Body)
			if err != nil {
				t.Errorf("Test %v: creating gzip reader: %v", i, err)
				continue
			}
			b, err := io.ReadAll(gr)
			if err != nil {
				t.Errorf("Test %v: reading gzip body: %v", i, err)
				continue
			}
			got = string(b)
		}
		switch {
		case !reflect.DeepEqual(test.wantHeader, gotHeader):
			t.Errorf("Test %v headers not equal\nwanted: %v\ngot:    %v", i, test.wantHeader, gotHeader)
		case want != got:
			t.Errorf("Test %v: wanted body %v, got %v", i, want, got)
		}
	}
}

func TestHTTPHandler(t *testing.T) {
	httpHandlerTests := []struct {
		httpURI  string
		wantCode int
	}{
		{
			httpURI:  "http://example.com/health",
			wantCode: 200,
		},
		{
			httpURI:  "http://example.com/",
			wantCode: 418,
		},
		{
			httpURI:  "http://example.com/rules",
			wantCode: 418,
		},
	}
	for i, test := range httpHandlerTests {
		var cfg Config
		httpsRedirectHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(418)
		})
		r := httptest.NewRequest("", test.httpURI, nil)
		w := httptest.NewRecorder()
		h := cfg.httpHandler(httpsRedirectHandler)
		h.ServeHTTP(w, r)
		gotCode := w.Code
		if test.wantCode != gotCode {
			t.Errorf("Test %v: wanted status code %v, got %v", i, test.wantCode, gotCode)
		}
	}
}

func TestHTTPSHandler(t *testing.T) {
	username := "selene" // used to check token for POST
	monitor := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		t.Errorf("monitor called")
	})
	withTLS := func(r *http.Request) *http.Request {
		r.TLS = &tls.ConnectionState{}
		return r
	}
	withSecHeader := func(r *http.Request) *http.Request {
		r.Header.Add("Sec-Fetch-Mode", "same-origin")
		return r
	}
	withAuthorization := func(r *http.Request) *http.Request {
		r.Header.Add("Authorization", "Bearer GOOD")
		r.Form = url.Values{"username": {username}}
		return r
	}
	history := mockHistory{
		pingFunc: func(ctx context.Context) error {
			return nil
		},
	}
	httpsHandlerTests := []struct {
		*http.Request
		Config
		Parameters
		httpHandler          http.HandlerFunc
		httpsRedirectHandler http.HandlerFunc
		wantCode             int
	}{
		{ // no TLS sent to HTTP handler
			Request: httptest.NewRequest("GET", "/rules", nil),
			httpHandler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(418)
			},
			wantCode: 418,
		},
		{
			Request: httptest.NewRequest("GET", "/want-redirect", nil),
			httpsRedirectHandler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(307307)
			},
			Config: Config{
				NoTLSRedirect: true,
			},
			wantCode: 307307,
		},
		{ // health check from proxy
			Request: httptest.NewRequest("GET", "/health", nil),
			Config: Config{
				NoTLSRedirect: true,
			},
			Parameters: Parameters{
				History: history,
			},
			wantCode: 200,
		},
		{
			Request: withSecHeader(httptest.NewRequest("GET", "/unknown", nil)),
			Config: Config{
				NoTLSRedirect: true,
			},
			wantCode: 404,
		},
		{
			Request:  withTLS(httptest.NewRequest("GET", "/unknown", nil)),
			wantCode: 404,
		},
		{
			Request: withTLS(httptest.NewRequest("GET", "/rules", nil)),
			Parameters: Parameters{
				Logger: logtest.DiscardLogger,
			},
			wantCode: 200,
		},
		{
			Request: withTLS(withAuthorization(httptest.NewRequest("POST", "/unknown", nil))),
			Parameters: Parameters{
				Tokenizer: mockTokenizer{
					ReadUsernameFunc: func(tokenString string) (string, error) {
						return username, nil
					},
				},
			},
			wantCode: 404,
		},
		{
			Request:  withTLS(httptest.NewRequest("DELETE", "/", nil)),
			wantCode: 405,
		},
	}
	for i, test := range httpsHandlerTests {
		w := httptest.NewRecorder()
		h := test.Config.httpsHandler(test.httpHandler, test.httpsRedirectHandler, test.Parameters, monitor)
		h.ServeHTTP(w, test.Request)
		gotCode := w.Code
		if test.wantCode != gotCode {
			t.Errorf("Test %v: status codes not equal: wanted: %v, got %v", i, test.wantCode, gotCode)
		}
	}
}

func TestCheckTokenUsername(t *testing.T) {
	want := "selene"
	checkTokenUsernameTests := []struct {
		authorizationHeader  string
		readTokenUsernameErr error
		formUsername         string
		wantOk               bool
	}{
		{},
		{
			authorizationHeader: "bad bearer token",
		},
		{
			authorizationHeader: "Bearer EVIL",
		},
		{
			authorizationHeader:  "Bearer GOOD",
			readTokenUsernameErr: fmt.Errorf("tokenizer error"),
		},
		{
			authorizationHeader: "Bearer GOOD",
			formUsername:        "alice",
		},
		{
			authorizationHeader: "Bearer GOOD",
			formUsername:        want,
			wantOk:              true,
		},
	}
	for i, test := range checkTokenUsernameTests {
		tokenizer := mockTokenizer{
			ReadUsernameFunc: func(tokenString string) (string, error) {
				if test.readTokenUsernameErr != nil {
					return "", test.readTokenUsernameErr
				}
				return want, nil
			},
		}
		r := httptest.NewRequest("", "/", nil)
		r.Header.Add("Authorization", test.authorizationHeader)
		r.Form = make(url.Values)
		r.Form.Add("username", test.formUsername)
		err := checkTokenUsername(r, tokenizer)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		}
	}
}

func TestHTTPError(t *testing.T) {
	w := httptest.NewRecorder()
	want := 400
	httpError(w, want)
	got := w.Code
	switch {
	case want != got:
		t.Errorf("wanted error message to contain %v, got %v", want, got)
	case w.Body.Len() <= 1: // ends in \n character
		t.Errorf("wanted status code info for error (%v) in body", want)
	}
}

func TestWriteInternalError(t *testing.T) {
	w := httptest.NewRecorder()
	err := fmt.Errorf("mock error")
	log := logtest.NewLogger()
	want := 500
	writeInternalError(err, log, w)
	got := w.Code
	switch {
	case want != got:
		t.Errorf("wanted error message to contain %v, got %v", want, got)
	case !strings.Contains(w.Body.String(), err.Error()):
		t.Errorf("wanted message in body (%v), but got %v", err.Error(), w.Body.String())
	case !log.Contains(err.Error()):
		t.Errorf("wanted message in log (%v), but got %v", err.Error(), log.String())
	}
}

func TestHasSecHeader(t *testing.T) {
	hasSecHeaderTests := map[string]bool{
		"Accept":          false,
		"DNT":             false,
		"":                false,
		"inSec-t":         false,
		"Sec-Fetch-Mode:": true,
	}
	for header, want := range hasSecHeaderTests {
		r := httptest.NewRequest("", "/", nil)
		r.Header.Add(header, "")
		got := hasSecHeader(r)
		if want != got {
			t.Errorf("wanted hasSecHeader = %v when header = %v", want, header)
		}
	}
}

func TestHTTPSRedirectHandler(t *testing.T) {
	httpsRedirectHandlerTests := []struct {
		httpURI      string
		httpsPort    int
		wantCode     int
		wantLocation string
	}{
		{
			httpURI:      "http://example.com/",
			httpsPort:    443,
			wantCode:     307,
			wantLocation: "https://example.com/",
		},
		{
			httpURI:      "https://example.com/",
			httpsPort:    443,
			wantCode:     307,
			wantLocation: "https://example.com/",
		},
		{
			httpURI:      "http://example.com:80/abc",
			httpsPort:    443,
			wantCode:     307,
			wantLocation: "https://example.com/abc",
		},
		{
			httpURI:      "http://example.com:8001/abc/d",
			httpsPort:    8000,
			wantCode:     307,
			wantLocation: "https://example.com:8000/abc/d",
		},
	}
	for i, test := range httpsRedirectHandlerTests {
		r := httptest.NewRequest("", test.httpURI, nil)
		w := httptest.NewRecorder()
		h := httpsRedirectHandler(test.httpsPort)
		h.ServeHTTP(w, r)
		gotCode := w.Code
		switch {
		case test.wantCode != gotCode:
			t.Errorf("Test %v: wanted status code %v, got %v", i, test.wantCode, gotCode)
		case test.wantLocation != w.Header().Get("Location"):
			t.Errorf("Test %v: Locations no equal:\nwanted: %v\ngot:    %v", i, test.wantLocation, w.Header().Get("Location"))
		}
	}
}

func TestValidHTTPAddr(t *testing.T) {
	validHTTPAddrTests := []struct {
		HTTPPort int
		want     bool
	}{
		{},
		{
			HTTPPort: 80,
			want:     true,
		},
		{
			HTTPPort: 8001,
			want:     true,
		},
	}
	for i, test := range validHTTPAddrTests {
		cfg := Config{
			HTTPPort: test.HTTPPort,
		}
		s := Server{
			Config: cfg,
		}
		got := s.validHTTPAddr()
		if test.want != got {
			t.Errorf("Test %v: when HTTP Port is '%v', validHTTPAddrs not equal: wanted: %v, got: %v", i, test.HTTPPort, test.want, got)
		}
	}
}

func TestWrappedResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	var buf bytes.Buffer
	w2 := wrappedResponseWriter{
		Writer:         &buf,
		ResponseWriter: w,
	}
	want := "sent to bb"
	w2.Write([]byte(want))
	got := buf.String()
	if want != got {
		t.Errorf("not equal:\nwanted: %v\ngot:    %v", want, got)
	}
}

func TestGetHandler(t *testing.T) {
	monitor := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		// NOOP
	})
	cfg := Config{
		HistoryLimit: 5,
	}
	p := Parameters{
		Logger: logtest.DiscardLogger,
		Tokenizer: mockTokenizer{
			ReadUsernameFunc: func(tokenString string) (string, error) {
				return "", nil
			},
		},
		Lobby: mockLobby{
			addUserFunc: func(username string, w http.ResponseWriter, r *http.Request) error {
				return nil
			},
		},
		History: mockHistory{
			recentFunc: func(ctx context.Context, n int) ([]game.Result, error) {
				return nil, nil
			},
			pingFunc: func(ctx context.Context) error {
				return nil
			},
		},
	}
	getHandlerTests := []struct {
		path     string
		wantCode int
	}{
		{"/invalid/get/path", 404},
		{"/ping", 404},
		{"/", 404},
		{"/user_login", 404},
		{"/lobby", 200},
		{"/rules", 200},
		{"/history", 200},
		{"/health", 200},
		{"/monitor", 200},
	}
	for i, test := range getHandlerTests {
		r := httptest.NewRequest("GET", test.path, nil)
		w := httptest.NewRecorder()
		h := p.getHandler(cfg, monitor)
		h.ServeHTTP(w, r)
		if gotCode := w.Code; test.wantCode != gotCode {
			t.Errorf("Test %v: codes not equal for GET to %v: wanted: %v, got: %v", i, test.path, test.wantCode, gotCode)
		}
	}
}

func TestPostHandler(t *testing.T) {
	type handlePostTest struct {
		path          string
		authorization string
		wantCode      int
	}
	var handlePostTests []handlePostTest
	for _, path := range []string{"/", "/invalid/post/path", "/rules"} {
		handlePostTests = append(handlePostTests,
			handlePostTest{path: path, wantCode: 403},
			handlePostTest{path: path, wantCode: 404, authorization: "Bearer GOOD"},
		)
	}
	for _, path := range []string{"/user_create", "/user_login"} {
		handlePostTests = append(handlePostTests,
			handlePostTest{path: path, wantCode: 200},
		)
	}
	for _, path := range []string{"/user_update_password", "/user_delete", "/ping"} {
		handlePostTests = append(handlePostTests,
			handlePostTest{path: path, wantCode: 403},
			handlePostTest{path: path, wantCode: 200, authorization: "Bearer GOOD"},
		)
	}
	u := "selene"
	formParams := url.Values{
		"username":         {u},
		"password":         {"s3cr3t_old"},
		"password_confirm": {"s3cr3t_new"},
	}
	tokenizer := mockTokenizer{
		CreateFunc: func(username string, points int) (string, error) {
			return "", nil
		},
		ReadUsernameFunc: func(tokenString string) (string, error) {
			return u, nil
		},
	}
	lobby := mockLobby{
		removeUserFunc: func(username string) {
			// NOOP
		},
	}
	userDao := mockUserDao{
		createFunc: func(ctx context.Context, u user.User) error {
			return nil
		},
		readFunc: func(ctx context.Context, u user.User) (*user.User, error) {
			return &user.User{}, nil
		},
		updatePasswordFunc: func(ctx context.Context, u user.User, newP string) error {
			return nil
		},
		deleteFunc: func(ctx context.Context, u user.User) error {
			return nil
		},
	}
	for i, test := range handlePostTests {
		r := httptest.NewRequest("", test.path, nil)
		r.Form = formParams
		r.Header.Add("Authorization", test.authorization)
		w := httptest.NewRecorder()
		p := Parameters{
			Logger:    logtest.DiscardLogger,
			Tokenizer: tokenizer,
			Lobby:     lobby,
			UserDao:   userDao,
		}
		h := p.postHandler()
		h.ServeHTTP(w, r)
		gotCode := w.Code
		if test.wantCode != gotCode {
			t.Errorf("Test %v:\nPOST to %v, authorization='%v': status codes not equal: wanted: %v, got: %v", i, test.path, test.authorization, test.wantCode, gotCode)
		}
	}
}
