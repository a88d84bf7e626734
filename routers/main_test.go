package routers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/edushare/edushare/application/dependency"
	"github.com/edushare/edushare/pkg/cache"
	"github.com/edushare/edushare/pkg/conf"
	"github.com/edushare/edushare/pkg/logging"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDep(t *testing.T) dependency.Dep {
	l := logging.NewLogger(logging.LevelError, &bytes.Buffer{})
	config, err := conf.NewIniConfigProviderFromBytes([]byte(fmt.Sprintf(
		"[System]\nSessionSecret = router-test\nHashIDSalt = router-test-salt\n"+
			"[Database]\nType = sqlite\nDBFile = :memory:\n"+
			"[Upload]\nSavePath = %s\n", t.TempDir())), l)
	if err != nil {
		t.Fatalf("failed to parse config: %s", err)
	}

	dep := dependency.NewDependency(
		dependency.WithConfigProvider(config),
		dependency.WithLogger(l),
		dependency.WithKV(cache.NewMemoStore()),
	)
	t.Cleanup(func() { dep.DBClient().Close() })
	return dep
}

type apiResponse struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Msg     string          `json:"msg"`
	Notices []struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"notices"`
}

// testClient keeps the session cookie across requests like a browser does.
type testClient struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
	html    bool
}

func newTestClient(t *testing.T, router *gin.Engine) *testClient {
	return &testClient{t: t, router: router, cookies: make(map[string]*http.Cookie)}
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	if c.html {
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		c.cookies[cookie.Name] = cookie
	}
	return w
}

func (c *testClient) decode(w *httptest.ResponseRecorder) apiResponse {
	var res apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		c.t.Fatalf("failed to decode response %q: %s", w.Body.String(), err)
	}
	return res
}

func (c *testClient) get(path string) apiResponse {
	return c.decode(c.do(httptest.NewRequest("GET", path, nil)))
}

func (c *testClient) postForm(path string, values url.Values) apiResponse {
	return c.decode(c.postFormRaw(path, values))
}

func (c *testClient) postFormRaw(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *testClient) upload(fields map[string]string, filename string, content []byte) apiResponse {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}
	if filename != "" {
		part, _ := writer.CreateFormFile("file", filename)
		_, _ = io.Copy(part, bytes.NewReader(content))
	}
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.decode(c.do(req))
}

// signUp registers and logs in a user on a fresh client.
func signUp(t *testing.T, router *gin.Engine, username string) *testClient {
	c := newTestClient(t, router)
	res := c.postForm("/register", url.Values{
		"username": {username},
		"email":    {username + "@edushare.test"},
		"password": {"secret-" + username},
	})
	if res.Code != 0 {
		t.Fatalf("failed to register %q: %d %s", username, res.Code, res.Msg)
	}

	res = c.postForm("/login", url.Values{
		"username": {username},
		"password": {"secret-" + username},
	})
	if res.Code != 0 {
		t.Fatalf("failed to login %q: %d %s", username, res.Code, res.Msg)
	}
	return c
}

func decodeData[T any](t *testing.T, res apiResponse) T {
	var v T
	if err := json.Unmarshal(res.Data, &v); err != nil {
		t.Fatalf("failed to decode data %q: %s", string(res.Data), err)
	}
	return v
}
