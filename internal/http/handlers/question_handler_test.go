package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-qa-backend/internal/domain"
	"github.com/tbourn/go-qa-backend/internal/services"
	"github.com/tbourn/go-qa-backend/internal/store"
)

// ---------- test router ----------

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.New()
	h := New(services.NewQuestionService(st), services.NewAnswerService(st))

	r := gin.New()
	r.GET("/questions", h.ListQuestions)
	r.GET("/questions/:id", h.GetQuestion)
	r.POST("/questions", h.AddQuestion)
	r.PUT("/questions/:id", h.UpdateQuestion)
	r.DELETE("/questions/:id", h.DeleteQuestion)
	r.GET("/questions/:id/answers", h.ListQuestionAnswers)
	r.POST("/answers", h.AddAnswer)
	r.GET("/answers/:id", h.GetAnswer)
	r.DELETE("/answers/:id", h.DeleteAnswer)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Buffer
	if body != "" {
		rd = bytes.NewBufferString(body)
	} else {
		rd = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return er
}

func createQuestion(t *testing.T, r http.Handler, title string) domain.Question {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/questions", `{"title":"`+title+`","content":"c"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create %q: status=%d body=%s", title, w.Code, w.Body.String())
	}
	var q domain.Question
	if err := json.Unmarshal(w.Body.Bytes(), &q); err != nil {
		t.Fatalf("decode question: %v", err)
	}
	return q
}

// ---------- tests ----------

func TestAddQuestion_CreatedAndFetchable(t *testing.T) {
	r := newTestRouter(t)
	q := createQuestion(t, r, "First")
	if q.ID == "" || q.Title != "First" || q.Content != "c" {
		t.Fatalf("unexpected question: %+v", q)
	}

	w := doJSON(t, r, http.MethodGet, "/questions/"+q.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: status=%d", w.Code)
	}
	var got domain.Question
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.ID != q.ID || got.Title != "First" {
		t.Fatalf("get mismatch: %+v", got)
	}
}

func TestAddQuestion_EmptyTitle_400(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/questions", `{"title":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	if er := decodeErr(t, w); er.Code != ErrCodeInvalidInput || er.Status != 400 {
		t.Fatalf("unexpected body: %+v", er)
	}
}

func TestAddQuestion_MalformedBody_400(t *testing.T) {
	r := newTestRouter(t)
	for _, body := range []string{`{"title":`, `{"title": 42}`, `[]`} {
		w := doJSON(t, r, http.MethodPost, "/questions", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status=%d", body, w.Code)
		}
		if er := decodeErr(t, w); er.Code != ErrCodeInvalidInput || er.Message != "invalid request body" {
			t.Fatalf("body %q: unexpected envelope %+v", body, er)
		}
	}
}

func TestListQuestions_Pagination(t *testing.T) {
	r := newTestRouter(t)
	a := createQuestion(t, r, "A")
	b := createQuestion(t, r, "B")
	createQuestion(t, r, "C")

	w := doJSON(t, r, http.MethodGet, "/questions?start=0&end=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if got := w.Header().Get(HeaderTotalCount); got != "3" {
		t.Fatalf("X-Total-Count=%q", got)
	}
	var items []domain.Question
	_ = json.Unmarshal(w.Body.Bytes(), &items)
	if len(items) != 2 || items[0].ID != a.ID || items[1].ID != b.ID {
		t.Fatalf("items=%+v", items)
	}

	// inverted window → empty list, not an error
	w = doJSON(t, r, http.MethodGet, "/questions?start=5&end=1", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("inverted: status=%d body=%s", w.Code, w.Body.String())
	}

	// offset/limit equivalent
	w = doJSON(t, r, http.MethodGet, "/questions?offset=1&limit=1", "")
	_ = json.Unmarshal(w.Body.Bytes(), &items)
	if w.Code != http.StatusOK || len(items) != 1 || items[0].ID != b.ID {
		t.Fatalf("offset/limit: status=%d items=%+v", w.Code, items)
	}

	// no params → everything
	w = doJSON(t, r, http.MethodGet, "/questions", "")
	_ = json.Unmarshal(w.Body.Bytes(), &items)
	if len(items) != 3 {
		t.Fatalf("all: items=%+v", items)
	}
}

func TestListQuestions_EmptyStoreIsEmptyArray(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/questions", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestListQuestions_BadParams(t *testing.T) {
	r := newTestRouter(t)
	cases := []struct {
		query string
		code  string
	}{
		{"start=x&end=2", ErrCodeParse},
		{"start=0&end=-1", ErrCodeParse},
		{"start=1", ErrCodeMissingParameter},
		{"end=1", ErrCodeMissingParameter},
		{"limit=3", ErrCodeMissingParameter},
	}
	for _, tc := range cases {
		w := doJSON(t, r, http.MethodGet, "/questions?"+tc.query, "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", tc.query, w.Code)
		}
		if er := decodeErr(t, w); er.Code != tc.code {
			t.Fatalf("%s: code=%q want %q", tc.query, er.Code, tc.code)
		}
	}
}

func TestUpdateQuestion(t *testing.T) {
	r := newTestRouter(t)
	q := createQuestion(t, r, "Old")

	w := doJSON(t, r, http.MethodPut, "/questions/"+q.ID, `{"id":"ignored","title":"New","content":"x","tags":["Go"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got domain.Question
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.ID != q.ID || got.Title != "New" || got.Content != "x" || len(got.Tags) != 1 || got.Tags[0] != "go" {
		t.Fatalf("unexpected update result: %+v", got)
	}

	w = doJSON(t, r, http.MethodPut, "/questions/does-not-exist", `{"title":"t"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing: status=%d", w.Code)
	}
	if er := decodeErr(t, w); er.Code != ErrCodeNotFound || er.Status != 404 {
		t.Fatalf("missing: %+v", er)
	}

	w = doJSON(t, r, http.MethodPut, "/questions/"+q.ID, `not-json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad body: status=%d", w.Code)
	}
}

func TestUpdateQuestion_TagCap(t *testing.T) {
	r := newTestRouter(t)
	q := createQuestion(t, r, "Tagged")

	tags := make([]string, 17)
	for i := range tags {
		tags[i] = fmt.Sprintf("t%02d", i)
	}
	body, _ := json.Marshal(map[string]any{"title": "Tagged", "tags": tags})

	w := doJSON(t, r, http.MethodPut, "/questions/"+q.ID, string(body))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("17 tags: status=%d body=%s", w.Code, w.Body.String())
	}
	if er := decodeErr(t, w); er.Code != ErrCodeInvalidInput || !strings.Contains(er.Message, "tags") {
		t.Fatalf("17 tags: unexpected envelope %+v", er)
	}

	// the stored record is untouched
	w = doJSON(t, r, http.MethodGet, "/questions/"+q.ID, "")
	var got domain.Question
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Tags != nil {
		t.Fatalf("tags changed by rejected update: %#v", got.Tags)
	}

	// exactly at the cap is accepted and read back unchanged
	body, _ = json.Marshal(map[string]any{"title": "  Tagged  twice ", "tags": tags[:16]})
	w = doJSON(t, r, http.MethodPut, "/questions/"+q.ID, string(body))
	if w.Code != http.StatusOK {
		t.Fatalf("16 tags: status=%d body=%s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/questions/"+q.ID, "")
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Title != "  Tagged  twice " || len(got.Tags) != 16 || got.Tags[15] != "t15" {
		t.Fatalf("round trip: %+v", got)
	}
}

func TestDeleteQuestion(t *testing.T) {
	r := newTestRouter(t)
	q := createQuestion(t, r, "Gone")

	if w := doJSON(t, r, http.MethodDelete, "/questions/"+q.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: status=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/questions/"+q.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/questions/"+q.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: status=%d", w.Code)
	}
}

func TestAddAnswer_FormAndJSON(t *testing.T) {
	r := newTestRouter(t)

	form := url.Values{"content": {"ok"}, "question_id": {"nonexistent-id"}}
	req := httptest.NewRequest(http.MethodPost, "/answers", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("form: status=%d body=%s", w.Code, w.Body.String())
	}
	var a domain.Answer
	_ = json.Unmarshal(w.Body.Bytes(), &a)
	if a.ID == "" || a.Content != "ok" || a.QuestionID != "nonexistent-id" {
		t.Fatalf("form: unexpected answer %+v", a)
	}

	w = doJSON(t, r, http.MethodPost, "/answers", `{"content":"json","question_id":"q-2"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("json: status=%d body=%s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodGet, "/answers/"+a.ID, ""); w.Code != http.StatusOK {
		t.Fatalf("get answer: status=%d", w.Code)
	}
}

func TestAddAnswer_Invalid(t *testing.T) {
	r := newTestRouter(t)
	for _, body := range []string{
		`{"content":"","question_id":"q"}`,
		`{"content":"x","question_id":""}`,
		`{"content":"x","question_id":"has space"}`,
	} {
		w := doJSON(t, r, http.MethodPost, "/answers", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", body, w.Code)
		}
		if er := decodeErr(t, w); er.Code != ErrCodeInvalidInput {
			t.Fatalf("%s: code=%q", body, er.Code)
		}
	}
}

func TestAnswers_ListByQuestion_AndDelete(t *testing.T) {
	r := newTestRouter(t)
	q := createQuestion(t, r, "Q")

	w := doJSON(t, r, http.MethodPost, "/answers", `{"content":"a1","question_id":"`+q.ID+`"}`)
	var a domain.Answer
	_ = json.Unmarshal(w.Body.Bytes(), &a)
	doJSON(t, r, http.MethodPost, "/answers", `{"content":"other","question_id":"elsewhere"}`)

	// no cascade
	doJSON(t, r, http.MethodDelete, "/questions/"+q.ID, "")

	w = doJSON(t, r, http.MethodGet, "/questions/"+q.ID+"/answers", "")
	var list []domain.Answer
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if w.Code != http.StatusOK || len(list) != 1 || list[0].ID != a.ID {
		t.Fatalf("list: status=%d items=%+v", w.Code, list)
	}

	if w := doJSON(t, r, http.MethodDelete, "/answers/"+a.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete answer: status=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/answers/"+a.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("get deleted answer: status=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/answers/"+a.ID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: status=%d", w.Code)
	}
}
