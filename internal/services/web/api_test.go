package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/localeforms/internal/platform/errors"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	spb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
)

func postJSON(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return serve(t, newTestHandler(t), req)
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) *status.Status {
	t.Helper()
	var proto spb.Status
	if err := protojson.Unmarshal(w.Body.Bytes(), &proto); err != nil {
		t.Fatalf("decode status: %v: %s", err, w.Body.String())
	}
	return status.FromProto(&proto)
}

type statusDetails struct {
	info       *errdetails.ErrorInfo
	localized  *errdetails.LocalizedMessage
	badRequest *errdetails.BadRequest
}

func detailsOf(st *status.Status) statusDetails {
	var out statusDetails
	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			out.info = d
		case *errdetails.LocalizedMessage:
			out.localized = d
		case *errdetails.BadRequest:
			out.badRequest = d
		}
	}
	return out
}

func TestProfileAPIReportsFieldViolations(t *testing.T) {
	t.Parallel()

	w := postJSON(t, "/de/api/profile", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	st := decodeStatus(t, w)
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("code = %v, want %v", st.Code(), codes.InvalidArgument)
	}
	d := detailsOf(st)
	if d.info == nil || d.info.GetReason() != string(apperrors.CodeFormInvalid) || d.info.GetMetadata()["count"] != "2" {
		t.Fatalf("ErrorInfo = %v", d.info)
	}
	if d.localized == nil || d.localized.GetLocale() != "de-DE" || d.localized.GetMessage() != "2 Feld(er) erfordern Aufmerksamkeit" {
		t.Fatalf("LocalizedMessage = %v", d.localized)
	}
	if d.badRequest == nil {
		t.Fatal("expected BadRequest detail")
	}
	got := map[string]string{}
	for _, v := range d.badRequest.GetFieldViolations() {
		got[v.GetField()] = v.GetDescription()
	}
	if got["name"] != "Erforderlich" || got["age"] != "Erforderlich" || len(got) != 2 {
		t.Fatalf("violations = %v", got)
	}
}

func TestProfileAPIBoundsAndFormats(t *testing.T) {
	t.Parallel()

	w := postJSON(t, "/en/api/profile", `{"name":"Ada","age":151,"email":"nope"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	d := detailsOf(decodeStatus(t, w))
	got := map[string]string{}
	for _, v := range d.badRequest.GetFieldViolations() {
		got[v.GetField()] = v.GetDescription()
	}
	want := map[string]string{
		"age":   "Too big. Expected the value to be at most 150",
		"email": "Invalid Email",
	}
	for field, message := range want {
		if got[field] != message {
			t.Fatalf("violation %s = %q, want %q (all: %v)", field, got[field], message, got)
		}
	}
}

func TestProfileAPIRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"name":`, `{"name":"Ada","age":1,"extra":true}`, `{} {}`} {
		w := postJSON(t, "/en/api/profile", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want %d", body, w.Code, http.StatusBadRequest)
		}
		d := detailsOf(decodeStatus(t, w))
		if d.info == nil || d.info.GetReason() != string(apperrors.CodeFormMalformed) {
			t.Fatalf("%s: ErrorInfo = %v", body, d.info)
		}
		if d.localized.GetMessage() != "The request body could not be read" {
			t.Fatalf("%s: LocalizedMessage = %v", body, d.localized)
		}
	}
}

func TestProfileAPIWithoutValidation(t *testing.T) {
	t.Parallel()

	h := &handler{config: Config{AppName: defaultAppName}}
	req := httptest.NewRequest(http.MethodPost, "/it/api/profile", strings.NewReader(`{}`))
	req.SetPathValue("locale", "it")
	w := httptest.NewRecorder()
	h.handleProfileAPI(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	d := detailsOf(decodeStatus(t, w))
	if d.info == nil || d.info.GetReason() != string(apperrors.CodeSchemaUnavailable) {
		t.Fatalf("ErrorInfo = %v", d.info)
	}
}

func TestProfileAPIAcceptsValidProfile(t *testing.T) {
	t.Parallel()

	w := postJSON(t, "/en/api/profile", `{"name":"Ada","age":36,"email":"ada@example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var resp struct {
		Profile struct {
			Name  string  `json:"name"`
			Age   float64 `json:"age"`
			Email string  `json:"email"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Profile.Name != "Ada" || resp.Profile.Age != 36 || resp.Profile.Email != "ada@example.com" {
		t.Fatalf("profile = %+v", resp.Profile)
	}
}

func TestProfileAPIRejectsCrossOrigin(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/en/api/profile", strings.NewReader(`{"name":"Ada","age":36}`))
	req.Header.Set("Origin", "https://evil.example.test")
	w := serve(t, newTestHandler(t), req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
	st := decodeStatus(t, w)
	if st.Code() != codes.PermissionDenied {
		t.Fatalf("code = %v, want %v", st.Code(), codes.PermissionDenied)
	}
	if d := detailsOf(st); d.info == nil || d.info.GetReason() != string(apperrors.CodeCrossOrigin) {
		t.Fatalf("ErrorInfo = %v", d.info)
	}
}
