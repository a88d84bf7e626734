package routers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	model "github.com/edushare/edushare/models"
	"github.com/edushare/edushare/pkg/serializer"
	"github.com/edushare/edushare/service/explorer"
	"github.com/edushare/edushare/service/user"
	"github.com/stretchr/testify/assert"
)

func TestPing(t *testing.T) {
	asserts := assert.New(t)
	router := InitRouter(newTestDep(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	router.ServeHTTP(w, req)
	asserts.Equal(200, w.Code)
	asserts.Contains(w.Body.String(), `"code":0`)
	asserts.NotEmpty(w.Header().Get("X-Es-Correlation-Id"))
}

func TestLoginRequired(t *testing.T) {
	asserts := assert.New(t)
	router := InitRouter(newTestDep(t))

	// JSON 客户端
	{
		c := newTestClient(t, router)
		res := c.get("/")
		asserts.Equal(serializer.CodeCheckLogin, res.Code)
	}

	// 浏览器
	{
		c := newTestClient(t, router)
		c.html = true
		w := c.do(httptest.NewRequest("GET", "/folder/abc", nil))
		asserts.Equal(http.StatusSeeOther, w.Code)
		asserts.Equal("/login", w.Header().Get("Location"))
	}
}

func TestRegisterAndLogin(t *testing.T) {
	asserts := assert.New(t)
	router := InitRouter(newTestDep(t))
	c := newTestClient(t, router)

	res := c.postForm("/register", url.Values{
		"username": {"  alice "},
		"email":    {"Alice@Example.COM"},
		"password": {"hunter22"},
	})
	asserts.Equal(0, res.Code)
	asserts.Equal("Account created! Please log in.", res.Msg)
	u := decodeData[user.User](t, res)
	asserts.Equal("alice", u.Username)
	asserts.Equal("alice@example.com", u.Email)

	// 重复的用户名或邮箱
	res = c.postForm("/register", url.Values{
		"username": {"alice"},
		"email":    {"other@example.com"},
		"password": {"hunter22"},
	})
	asserts.Equal(serializer.CodeDuplicateIdentity, res.Code)
	res = c.postForm("/register", url.Values{
		"username": {"alice2"},
		"email":    {"ALICE@example.com"},
		"password": {"hunter22"},
	})
	asserts.Equal(serializer.CodeDuplicateIdentity, res.Code)

	// 缺少字段
	res = c.postForm("/register", url.Values{"username": {"bob"}})
	asserts.Equal(serializer.CodeParamErr, res.Code)

	// 未知用户与错误密码返回相同的错误
	unknown := c.postForm("/login", url.Values{"username": {"nobody"}, "password": {"hunter22"}})
	wrong := c.postForm("/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	asserts.Equal(serializer.CodeCredentialInvalid, unknown.Code)
	asserts.Equal(unknown.Code, wrong.Code)
	asserts.Equal(unknown.Msg, wrong.Msg)

	res = c.postForm("/login", url.Values{"username": {"alice"}, "password": {"hunter22"}})
	asserts.Equal(0, res.Code)
	asserts.Equal("Welcome back!", res.Msg)

	res = c.get("/me")
	asserts.Equal(0, res.Code)
	asserts.Equal("alice", decodeData[user.User](t, res).Username)

	res = c.get("/logout")
	asserts.Equal(0, res.Code)
	asserts.Equal(serializer.CodeCheckLogin, c.get("/me").Code)
}

func TestFolderLifecycle(t *testing.T) {
	asserts := assert.New(t)
	router := InitRouter(newTestDep(t))
	alice := signUp(t, router, "alice")
	bob := signUp(t, router, "bob")

	res := alice.postForm("/folder/create", url.Values{"name": {"   "}})
	asserts.NotEqual(0, res.Code)

	res = alice.postForm("/folder/create", url.Values{"name": {" Math "}})
	asserts.Equal(0, res.Code)
	math := decodeData[explorer.Folder](t, res)
	asserts.Equal("Math", math.Name)

	res = alice.postForm("/folder/create", url.Values{"name": {"Algebra"}, "parent_id": {math.ID}})
	asserts.Equal(0, res.Code)
	algebra := decodeData[explorer.Folder](t, res)
	asserts.Equal(math.ID, algebra.Parent)

	// 列目录与面包屑
	res = alice.get("/folder/" + algebra.ID)
	asserts.Equal(0, res.Code)
	list := decodeData[explorer.ListResponse](t, res)
	if asserts.Len(list.Breadcrumbs, 2) {
		asserts.Equal("Math", list.Breadcrumbs[0].Name)
		asserts.Equal("Algebra", list.Breadcrumbs[1].Name)
	}

	res = alice.get("/")
	list = decodeData[explorer.ListResponse](t, res)
	asserts.Len(list.Folders, 1)

	// 其他用户的目录视为不存在
	res = bob.get("/folder/" + math.ID)
	asserts.True(serializer.IsNotFoundCode(res.Code))
	res = bob.postForm("/folder/"+math.ID+"/delete", nil)
	asserts.True(serializer.IsNotFoundCode(res.Code))
	res = bob.postForm("/folder/create", url.Values{"name": {"Sneaky"}, "parent_id": {math.ID}})
	asserts.True(serializer.IsNotFoundCode(res.Code))
	asserts.Empty(decodeData[explorer.ListResponse](t, bob.get("/")).Folders)

	// 非空目录无法删除
	res = alice.postForm("/folder/"+math.ID+"/delete", nil)
	asserts.Equal(serializer.CodeFolderNotEmpty, res.Code)

	res = alice.postForm("/folder/"+algebra.ID+"/delete", nil)
	asserts.Equal(0, res.Code)
	res = alice.postForm("/folder/"+math.ID+"/delete", nil)
	asserts.Equal(0, res.Code)
	asserts.Empty(decodeData[explorer.ListResponse](t, alice.get("/")).Folders)

	res = alice.get("/folder/" + math.ID)
	asserts.True(serializer.IsNotFoundCode(res.Code))
}

func TestFolderWithResourceNotEmpty(t *testing.T) {
	asserts := assert.New(t)
	router := InitRouter(newTestDep(t))
	alice := signUp(t, router, "alice")

	folder := decodeData[explorer.Folder](t, alice.postForm("/folder/create", url.Values{"name": {"Physics"}}))
	res := alice.upload(map[string]string{"title": "Optics", "folder_id": folder.ID}, "optics.pdf", []byte("light"))
	asserts.Equal(0, res.Code)
	resource := decodeData[explorer.Resource](t, res)

	list := decodeData[explorer.ListResponse](t, alice.get("/folder/"+folder.ID))
	asserts.Len(list.Resources, 1)
	asserts.Empty(decodeData[explorer.ListResponse](t, alice.get("/")).Resources)

	res = alice.postForm("/folder/"+folder.ID+"/delete", nil)
	asserts.Equal(serializer.CodeFolderNotEmpty, res.Code)

	asserts.Equal(0, alice.postForm("/resource/"+resource.ID+"/delete", nil).Code)
	asserts.Equal(0, alice.postForm("/folder/"+folder.ID+"/delete", nil).Code)
}

func TestUploadAndDownload(t *testing.T) {
	asserts := assert.New(t)
	router := InitRouter(newTestDep(t))
	alice := signUp(t, router, "alice")
	bob := signUp(t, router, "bob")

	res := alice.upload(map[string]string{"title": "Malware"}, "payload.exe", []byte("MZ"))
	asserts.Equal(serializer.CodeFileTypeNotAllowed, res.Code)

	res = alice.upload(map[string]string{"title": "Nothing"}, "", nil)
	asserts.Equal(serializer.CodeNoFile, res.Code)

	res = alice.upload(nil, "../My Notes.PDF", []byte("hello notes"))
	asserts.Equal(0, res.Code)
	asserts.Equal("Uploaded!", res.Msg)
	resource := decodeData[explorer.Resource](t, res)
	asserts.Equal("Untitled", resource.Title)
	asserts.True(strings.HasSuffix(resource.Filename, "_My_Notes.PDF"), resource.Filename)
	asserts.EqualValues(11, resource.Size)
	asserts.Nil(resource.AverageRating)

	// 其他用户的目录
	folder := decodeData[explorer.Folder](t, bob.postForm("/folder/create", url.Values{"name": {"Bob"}}))
	res = alice.upload(map[string]string{"folder_id": folder.ID}, "notes.pdf", []byte("x"))
	asserts.True(serializer.IsNotFoundCode(res.Code))

	// 任何登录用户均可下载
	w := bob.do(httptest.NewRequest("GET", "/download/"+resource.ID, nil))
	asserts.Equal(200, w.Code)
	asserts.Equal("hello notes", w.Body.String())
	asserts.Contains(w.Header().Get("Content-Disposition"), "attachment")
	asserts.Contains(w.Header().Get("Content-Disposition"), resource.Filename)

	// 类型不符的 ID
	res = bob.decode(bob.do(httptest.NewRequest("GET", "/download/"+folder.ID, nil)))
	asserts.Equal(serializer.CodeNotFound, res.Code)
}

func TestReviewUpsertAndAverage(t *testing.T) {
	asserts := assert.New(t)
	dep := newTestDep(t)
	router := InitRouter(dep)
	alice := signUp(t, router, "alice")
	bob := signUp(t, router, "bob")
	carol := signUp(t, router, "carol")

	resource := decodeData[explorer.Resource](t, alice.upload(map[string]string{"title": "Calculus"}, "calc.pdf", []byte("dx")))

	detail := decodeData[explorer.ResourceDetail](t, bob.get("/resource/"+resource.ID))
	asserts.Nil(detail.AverageRating)
	asserts.Empty(detail.Reviews)

	// 重复提交覆盖原有评价
	res := bob.postForm("/resource/"+resource.ID+"/review", url.Values{"rating": {"3"}, "comment": {"meh"}})
	asserts.Equal(0, res.Code)
	asserts.Equal("Review saved.", res.Msg)
	res = bob.postForm("/resource/"+resource.ID+"/review", url.Values{"rating": {"9"}, "comment": {"great"}})
	asserts.Equal(0, res.Code)

	detail = decodeData[explorer.ResourceDetail](t, bob.get("/resource/"+resource.ID))
	if asserts.Len(detail.Reviews, 1) {
		asserts.Equal(9, detail.Reviews[0].Rating)
		asserts.Equal("great", detail.Reviews[0].Comment)
		asserts.Equal("bob", detail.Reviews[0].Username)
	}

	// 超出范围的评分被截断
	res = carol.postForm("/resource/"+resource.ID+"/review", url.Values{"rating": {"15"}})
	asserts.Equal(10, decodeData[explorer.Review](t, res).Rating)
	res = alice.postForm("/resource/"+resource.ID+"/review", url.Values{"rating": {"-3"}})
	asserts.Equal(1, decodeData[explorer.Review](t, res).Rating)

	// 超出整数范围的评分同样被截断
	res = carol.postForm("/resource/"+resource.ID+"/review", url.Values{"rating": {"99999999999999999999"}})
	asserts.Equal(0, res.Code)
	asserts.Equal(10, decodeData[explorer.Review](t, res).Rating)
	res = alice.postForm("/resource/"+resource.ID+"/review", url.Values{"rating": {"-99999999999999999999"}})
	asserts.Equal(0, res.Code)
	asserts.Equal(1, decodeData[explorer.Review](t, res).Rating)

	// 非数字评分
	res = alice.postForm("/resource/"+resource.ID+"/review", url.Values{"rating": {"ten"}})
	asserts.Equal(serializer.CodeParamErr, res.Code)

	// (9 + 10 + 1) / 3
	detail = decodeData[explorer.ResourceDetail](t, alice.get("/resource/"+resource.ID))
	if asserts.NotNil(detail.AverageRating) {
		asserts.Equal(6.67, *detail.AverageRating)
	}
	asserts.Equal(3, detail.ReviewCount)
	asserts.True(detail.Owned)
	asserts.Equal("alice", detail.UploaderName)

	var count int
	dep.DBClient().Model(&model.Review{}).Count(&count)
	asserts.Equal(3, count)

	// 不存在的资料
	res = bob.postForm("/resource/"+strings.Repeat("z", 8)+"/review", url.Values{"rating": {"5"}})
	asserts.True(serializer.IsNotFoundCode(res.Code))
}

func TestDeleteResource(t *testing.T) {
	asserts := assert.New(t)
	dep := newTestDep(t)
	router := InitRouter(dep)
	alice := signUp(t, router, "alice")
	bob := signUp(t, router, "bob")

	resource := decodeData[explorer.Resource](t, alice.upload(map[string]string{"title": "History"}, "history.txt", []byte("1066")))
	asserts.Equal(0, bob.postForm("/resource/"+resource.ID+"/review", url.Values{"rating": {"7"}}).Code)

	res := bob.postForm("/resource/"+resource.ID+"/delete", nil)
	asserts.Equal(serializer.CodeNoPermissionErr, res.Code)
	asserts.Equal(0, bob.get("/resource/"+resource.ID).Code)

	res = alice.postForm("/resource/"+resource.ID+"/delete", nil)
	asserts.Equal(0, res.Code)
	asserts.Equal("Resource deleted.", res.Msg)

	res = bob.get("/resource/" + resource.ID)
	asserts.True(serializer.IsNotFoundCode(res.Code))

	var count int
	dep.DBClient().Model(&model.Review{}).Count(&count)
	asserts.Equal(0, count)

	w := bob.do(httptest.NewRequest("GET", "/download/"+resource.ID, nil))
	asserts.True(serializer.IsNotFoundCode(bob.decode(w).Code))
}

func TestSearch(t *testing.T) {
	asserts := assert.New(t)
	router := InitRouter(newTestDep(t))
	alice := signUp(t, router, "alice")
	bob := signUp(t, router, "bob")

	upload := func(title, author, subject string) explorer.Resource {
		res := alice.upload(map[string]string{"title": title, "author": author, "subject": subject}, "f.pdf", []byte(title))
		if res.Code != 0 {
			t.Fatalf("upload %q failed: %s", title, res.Msg)
		}
		return decodeData[explorer.Resource](t, res)
	}
	linear := upload("Linear Algebra", "Strang", "Math")
	organic := upload("Organic Chemistry", "Clayden", "Chemistry")
	abstract := upload("Abstract Algebra", "Dummit", "Math")
	_ = upload("Unrated Algebra", "Nobody", "Math")

	bob.postForm("/resource/"+linear.ID+"/review", url.Values{"rating": {"4"}})
	bob.postForm("/resource/"+abstract.ID+"/review", url.Values{"rating": {"8"}})
	bob.postForm("/resource/"+organic.ID+"/review", url.Values{"rating": {"10"}})

	res := bob.get("/search?q=ALGEBRA")
	asserts.Equal(0, res.Code)
	found := decodeData[explorer.SearchResponse](t, res)
	titles := make([]string, 0, len(found.Results))
	for _, r := range found.Results {
		titles = append(titles, r.Title)
	}
	asserts.Equal([]string{"Linear Algebra", "Abstract Algebra", "Unrated Algebra"}, titles)

	found = decodeData[explorer.SearchResponse](t, bob.get("/search?q=algebra&sort=rating"))
	titles = titles[:0]
	for _, r := range found.Results {
		titles = append(titles, r.Title)
	}
	asserts.Equal([]string{"Abstract Algebra", "Linear Algebra", "Unrated Algebra"}, titles)

	found = decodeData[explorer.SearchResponse](t, bob.get("/search?subject=math&author=strang"))
	if asserts.Len(found.Results, 1) {
		asserts.Equal(linear.ID, found.Results[0].ID)
	}

	found = decodeData[explorer.SearchResponse](t, bob.get("/search"))
	asserts.Len(found.Results, 4)
}

func TestBrowserFlashAndRedirect(t *testing.T) {
	asserts := assert.New(t)
	router := InitRouter(newTestDep(t))
	c := newTestClient(t, router)
	c.html = true

	w := c.postFormRaw("/register", url.Values{"username": {"dave"}})
	asserts.Equal(http.StatusSeeOther, w.Code)
	asserts.Equal("/register", w.Header().Get("Location"))

	// 通知在下一次页面请求中返回并被清空
	res := c.get("/register")
	if asserts.Len(res.Notices, 1) {
		asserts.Equal("All fields are required.", res.Notices[0].Message)
	}
	asserts.Empty(c.get("/register").Notices)

	w = c.postFormRaw("/register", url.Values{
		"username": {"dave"},
		"email":    {"dave@example.com"},
		"password": {"pw"},
	})
	asserts.Equal(http.StatusSeeOther, w.Code)
	asserts.Equal("/login", w.Header().Get("Location"))

	w = c.postFormRaw("/login", url.Values{"username": {"dave"}, "password": {"pw"}})
	asserts.Equal(http.StatusSeeOther, w.Code)
	asserts.Equal("/", w.Header().Get("Location"))

	res = c.get("/")
	asserts.Equal(0, res.Code)
	messages := make([]string, 0, len(res.Notices))
	for _, n := range res.Notices {
		messages = append(messages, n.Message)
	}
	asserts.Contains(messages, "Welcome back!")
}
