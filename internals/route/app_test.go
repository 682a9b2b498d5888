package routes

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"classifieds_backend/internals/configs"
	database "classifieds_backend/internals/databases"
	admodel "classifieds_backend/internals/features/board/advertisements/model"
	authModel "classifieds_backend/internals/features/users/auth/model"
	userModel "classifieds_backend/internals/features/users/user/model"
	helper "classifieds_backend/internals/helpers"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "correct-horse-42"

type testServer struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	configs.JWTSecret = "test-secret"
	configs.CookieSecure = false
	configs.RateLimitEnabled = false
	configs.BoardPageSize = 5

	db := database.CreateTestDB(t)
	media := helper.NewMediaStore(t.TempDir(), "/media", helper.DefaultImageOptions())
	return &testServer{t: t, app: NewApp(db, media), db: db}
}

func (s *testServer) do(req *http.Request, token string) *http.Response {
	s.t.Helper()
	if token != "" {
		req.AddCookie(&http.Cookie{Name: helper.AccessTokenCookie, Value: token})
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	s.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (s *testServer) get(path, token string) *http.Response {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil), token)
}

func (s *testServer) post(path string, form url.Values, token string) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return s.do(req, token)
}

func (s *testServer) postMultipart(path string, fields map[string]string, fileName string, file []byte, token string) *http.Response {
	s.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(s.t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("image", fileName)
		require.NoError(s.t, err)
		_, err = part.Write(file)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return s.do(req, token)
}

// signup registers name and returns the access token cookie value.
func (s *testServer) signup(name string) string {
	s.t.Helper()
	resp := s.post("/signup", url.Values{
		"user_name":        {name},
		"email":            {name + "@example.com"},
		"password":         {testPassword},
		"password_confirm": {testPassword},
	}, "")
	require.Equal(s.t, fiber.StatusSeeOther, resp.StatusCode)
	return tokenFrom(s.t, resp)
}

func (s *testServer) createAd(token, title string) admodel.AdvertisementModel {
	s.t.Helper()
	resp := s.post("/board/add", url.Values{"title": {title}, "content": {"content of " + title}}, token)
	require.Equal(s.t, fiber.StatusSeeOther, resp.StatusCode)
	var ad admodel.AdvertisementModel
	require.NoError(s.t, s.db.Where("title = ?", title).Take(&ad).Error)
	return ad
}

func tokenFrom(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == helper.AccessTokenCookie && c.Value != "" {
			return c.Value
		}
	}
	t.Fatalf("no %s cookie in response", helper.AccessTokenCookie)
	return ""
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, sonic.Unmarshal(raw, &out))
	return out
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSignupLogsInAndCreatesProfile(t *testing.T) {
	s := newTestServer(t)

	resp := s.post("/signup", url.Values{
		"user_name":        {"alice"},
		"email":            {"Alice@Example.com"},
		"password":         {testPassword},
		"password_confirm": {testPassword},
	}, "")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/board/", resp.Header.Get(fiber.HeaderLocation))
	token := tokenFrom(t, resp)

	var user userModel.UserModel
	require.NoError(t, s.db.Take(&user, "user_name = ?", "alice").Error)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, testPassword, user.Password)

	var n int64
	require.NoError(t, s.db.Model(&userModel.UserProfileModel{}).Where("user_id = ?", user.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	me := decode(t, s.get("/account", token))
	data := me["data"].(map[string]interface{})
	assert.Equal(t, "alice", data["user_name"])
}

func TestSignupRejectsBadInput(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice")

	resp := s.post("/signup", url.Values{
		"user_name":        {"alice"},
		"email":            {"other@example.com"},
		"password":         {testPassword},
		"password_confirm": {testPassword},
	}, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, decode(t, resp)["errors"], "user_name")

	resp = s.post("/signup", url.Values{
		"user_name":        {"bob"},
		"email":            {"bob@example.com"},
		"password":         {testPassword},
		"password_confirm": {"something-else"},
	}, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, decode(t, resp)["errors"], "password_confirm")
}

func TestLoginRedirectsToNext(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice")

	resp := s.post("/login", url.Values{
		"identifier": {"alice@example.com"},
		"password":   {testPassword},
		"next":       {"/board/add"},
	}, "")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/board/add", resp.Header.Get(fiber.HeaderLocation))
	tokenFrom(t, resp)

	resp = s.post("/login", url.Values{
		"identifier": {"alice"},
		"password":   {testPassword},
		"next":       {"https://evil.example/"},
	}, "")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/board/", resp.Header.Get(fiber.HeaderLocation))

	resp = s.post("/login", url.Values{"identifier": {"alice"}, "password": {"wrong-password"}}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRequiredRedirects(t *testing.T) {
	s := newTestServer(t)

	resp := s.post("/board/add", url.Values{"title": {"x"}, "content": {"y"}}, "")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=/board/add", resp.Header.Get(fiber.HeaderLocation))

	resp = s.get("/board/add", "garbage-token")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=/board/add", resp.Header.Get(fiber.HeaderLocation))

	var n int64
	require.NoError(t, s.db.Model(&admodel.AdvertisementModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateAndViewAdvertisement(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")

	resp := s.post("/board/add", url.Values{"title": {"Bike"}, "content": {"Red bike"}}, alice)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/board/", resp.Header.Get(fiber.HeaderLocation))

	var ad admodel.AdvertisementModel
	require.NoError(t, s.db.Take(&ad, "title = ?", "Bike").Error)

	doc := decode(t, s.get("/board/"+ad.ID.String(), ""))
	data := doc["data"].(map[string]interface{})
	got := data["advertisement"].(map[string]interface{})
	assert.Equal(t, "Red bike", got["content"])
	assert.Equal(t, "alice", got["author"].(map[string]interface{})["user_name"])
	assert.Equal(t, false, data["is_author"])
	assert.EqualValues(t, 1, data["author_stats"].(map[string]interface{})["advertisements_count"])

	doc = decode(t, s.get("/board/"+ad.ID.String(), alice))
	assert.Equal(t, true, doc["data"].(map[string]interface{})["is_author"])

	resp = s.post("/board/add", url.Values{"title": {"   "}, "content": {"x"}}, alice)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestNonAuthorIsSentBackToBoard(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")
	bob := s.signup("bob")
	ad := s.createAd(alice, "Bike")

	for _, path := range []string{"/edit", "/delete"} {
		resp := s.get("/board/"+ad.ID.String()+path, bob)
		require.Equal(t, fiber.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/board/", resp.Header.Get(fiber.HeaderLocation), path)
	}

	resp := s.post("/board/"+ad.ID.String()+"/edit", url.Values{"title": {"Stolen"}, "content": {"x"}}, bob)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/board/", resp.Header.Get(fiber.HeaderLocation))

	resp = s.post("/board/"+ad.ID.String()+"/delete", nil, bob)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	var got admodel.AdvertisementModel
	require.NoError(t, s.db.Take(&got, "id = ?", ad.ID).Error)
	assert.Equal(t, "Bike", got.Title)

	resp = s.post("/board/"+ad.ID.String()+"/edit", url.Values{"title": {"Blue bike"}, "content": {"Blue"}}, alice)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/board/"+ad.ID.String(), resp.Header.Get(fiber.HeaderLocation))
	require.NoError(t, s.db.Take(&got, "id = ?", ad.ID).Error)
	assert.Equal(t, "Blue bike", got.Title)

	resp = s.post("/board/"+ad.ID.String()+"/delete", nil, alice)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/board/", resp.Header.Get(fiber.HeaderLocation))
	assert.ErrorIs(t, s.db.Take(&got, "id = ?", ad.ID).Error, gorm.ErrRecordNotFound)
}

func TestUnknownAdvertisementIsNotFound(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")

	assert.Equal(t, fiber.StatusNotFound, s.get("/board/not-a-uuid", "").StatusCode)
	assert.Equal(t, fiber.StatusNotFound, s.get("/board/6f1c2f0e-8d51-4c1c-9d62-2b8a4a7f0c11", "").StatusCode)
	assert.Equal(t, fiber.StatusNotFound, s.get("/board/not-a-uuid/edit", alice).StatusCode)
	assert.Equal(t, fiber.StatusNotFound, s.post("/board/6f1c2f0e-8d51-4c1c-9d62-2b8a4a7f0c11/like", nil, alice).StatusCode)
}

func TestReactionsAndStatistics(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")
	bob := s.signup("bob")
	ad := s.createAd(alice, "Bike")
	detail := "/board/" + ad.ID.String()

	for i := 0; i < 2; i++ {
		resp := s.post(detail+"/like", nil, bob)
		require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, detail, resp.Header.Get(fiber.HeaderLocation))
	}

	data := decode(t, s.get(detail, bob))["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["advertisement"].(map[string]interface{})["likes"])
	assert.Equal(t, "like", data["my_reaction"])
	assert.EqualValues(t, 1, data["author_stats"].(map[string]interface{})["total_likes"])

	require.Equal(t, fiber.StatusSeeOther, s.post(detail+"/dislike", nil, bob).StatusCode)
	data = decode(t, s.get(detail, ""))["data"].(map[string]interface{})
	got := data["advertisement"].(map[string]interface{})
	assert.EqualValues(t, 0, got["likes"])
	assert.EqualValues(t, 1, got["dislikes"])
	stats := data["author_stats"].(map[string]interface{})
	assert.EqualValues(t, 0, stats["total_likes"])
	assert.EqualValues(t, 1, stats["total_dislikes"])

	// reactions are POST only
	assert.Equal(t, fiber.StatusMethodNotAllowed, s.get(detail+"/like", bob).StatusCode)
}

func TestCommentsFlow(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")
	bob := s.signup("bob")
	ad := s.createAd(alice, "Bike")
	detail := "/board/" + ad.ID.String()

	resp := s.post(detail+"/comments", url.Values{"content": {"still available?"}}, bob)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, detail, resp.Header.Get(fiber.HeaderLocation))

	comments := decode(t, s.get(detail, ""))["data"].(map[string]interface{})["comments"].([]interface{})
	require.Len(t, comments, 1)
	commentID := comments[0].(map[string]interface{})["id"].(string)

	resp = s.post("/board/comments/"+commentID+"/delete", nil, alice)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	comments = decode(t, s.get(detail, ""))["data"].(map[string]interface{})["comments"].([]interface{})
	assert.Len(t, comments, 1)

	require.Equal(t, fiber.StatusSeeOther, s.post("/board/comments/"+commentID+"/delete", nil, bob).StatusCode)
	comments = decode(t, s.get(detail, ""))["data"].(map[string]interface{})["comments"].([]interface{})
	assert.Empty(t, comments)
}

func TestListPagination(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")
	for i := 0; i < 6; i++ {
		s.createAd(alice, fmt.Sprintf("ad %d", i))
	}

	for _, tc := range []struct {
		query string
		page  int
		count int
	}{
		{"", 1, 5},
		{"?page=abc", 1, 5},
		{"?page=2", 2, 1},
		{"?page=999", 2, 1},
		{"?page=-3", 1, 5},
	} {
		doc := decode(t, s.get("/board/"+tc.query, ""))
		pg := doc["pagination"].(map[string]interface{})
		assert.EqualValues(t, tc.page, pg["page"], tc.query)
		assert.EqualValues(t, 2, pg["total_pages"], tc.query)
		assert.Len(t, doc["data"], tc.count, tc.query)
	}
}

func TestImageUpload(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")

	resp := s.postMultipart("/board/add", map[string]string{"title": "Lamp", "content": "Red lamp"}, "lamp.png", pngBytes(t), alice)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	var ad admodel.AdvertisementModel
	require.NoError(t, s.db.Take(&ad, "title = ?", "Lamp").Error)
	require.NotNil(t, ad.Image)
	assert.True(t, strings.HasPrefix(*ad.Image, "advertisements/"))
	assert.True(t, strings.HasSuffix(*ad.Image, ".webp"))

	img := s.get("/media/"+*ad.Image, "")
	assert.Equal(t, fiber.StatusOK, img.StatusCode)

	resp = s.postMultipart("/board/add", map[string]string{"title": "Notes", "content": "x"}, "notes.txt", []byte("just some text"), alice)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
	var n int64
	require.NoError(t, s.db.Model(&admodel.AdvertisementModel{}).Where("title = ?", "Notes").Count(&n).Error)
	assert.Zero(t, n)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")
	require.Equal(t, fiber.StatusOK, s.get("/account", alice).StatusCode)

	resp := s.post("/logout", nil, alice)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))

	var n int64
	require.NoError(t, s.db.Model(&authModel.TokenBlacklist{}).Where("token = ?", alice).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	resp = s.get("/account", alice)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login?next=/account", resp.Header.Get(fiber.HeaderLocation))

	// a link or prefetch must not log anyone out
	bob := s.signup("bob")
	assert.Equal(t, fiber.StatusMethodNotAllowed, s.get("/logout", bob).StatusCode)
	assert.Equal(t, fiber.StatusOK, s.get("/account", bob).StatusCode)
}

func TestPublicProfile(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")
	bob := s.signup("bob")
	ad := s.createAd(alice, "Bike")
	require.Equal(t, fiber.StatusSeeOther, s.post("/board/"+ad.ID.String()+"/like", nil, bob).StatusCode)

	var user userModel.UserModel
	require.NoError(t, s.db.Take(&user, "user_name = ?", "alice").Error)

	resp := s.get("/users/"+user.ID.String()+"/profile", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := decode(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, "alice", data["user"].(map[string]interface{})["user_name"])
	stats := data["stats"].(map[string]interface{})
	assert.Equal(t, user.ID.String(), stats["user_id"])
	assert.EqualValues(t, 1, stats["advertisements_count"])
	assert.EqualValues(t, 1, stats["total_likes"])
	assert.EqualValues(t, 0, stats["total_dislikes"])

	assert.Equal(t, fiber.StatusNotFound, s.get("/users/not-a-uuid/profile", "").StatusCode)
	assert.Equal(t, fiber.StatusNotFound, s.get("/users/6f1c2f0e-8d51-4c1c-9d62-2b8a4a7f0c11/profile", "").StatusCode)
}

func TestDeleteAccount(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")
	bob := s.signup("bob")
	ad := s.createAd(alice, "Bike")
	require.Equal(t, fiber.StatusSeeOther, s.post("/board/"+ad.ID.String()+"/like", nil, bob).StatusCode)

	resp := s.post("/account/delete", nil, bob)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))

	var n int64
	require.NoError(t, s.db.Model(&userModel.UserModel{}).Where("user_name = ?", "bob").Count(&n).Error)
	assert.Zero(t, n)

	data := decode(t, s.get("/board/"+ad.ID.String(), ""))["data"].(map[string]interface{})
	assert.EqualValues(t, 0, data["advertisement"].(map[string]interface{})["likes"])
	assert.EqualValues(t, 0, data["author_stats"].(map[string]interface{})["total_likes"])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	doc := decode(t, s.get("/health", ""))
	assert.Equal(t, "OK", doc["status"])
}
