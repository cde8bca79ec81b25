package api

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/blasq/internal/stream"
)

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	server, err := NewServer(Config{Queue: stream.Config{ForkSize: 2}})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	e := echo.New()
	server.Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return out
}

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func TestInfo(t *testing.T) {
	t.Parallel()

	rec := doJSON(t, newTestEcho(t), http.MethodGet, "/v1/info", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", rec.Code, rec.Body.String())
	}
	info := decode[InfoResponse](t, rec)
	if info.Kernels == "" || len(info.Devices) != 1 || info.ForkSize != 2 || info.IntMax <= 0 {
		t.Fatalf("info = %+v", info)
	}
}

func TestDot(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	for _, precision := range []string{"", "s", "d"} {
		body := `{"precision":"` + precision + `","n":3,"x":[1,2,3],"y":[4,5,6]}`
		rec := doJSON(t, e, http.MethodPost, "/v1/dot", body)
		if rec.Code != http.StatusOK {
			t.Fatalf("%q: status %d body=%s", precision, rec.Code, rec.Body.String())
		}
		resp := decode[DotResponse](t, rec)
		if resp.Result != 32 || !strings.HasPrefix(resp.ID, "req_") {
			t.Fatalf("%q: response = %+v", precision, resp)
		}
	}
}

func TestAxpyStrided(t *testing.T) {
	t.Parallel()

	rec := doJSON(t, newTestEcho(t), http.MethodPost, "/v1/axpy", `{"n":2,"alpha":2,"x":[1,9,3],"incx":2,"y":[10,20]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", rec.Code, rec.Body.String())
	}
	if y := decode[AxpyResponse](t, rec).Y; !slices.Equal(y, []float64{12, 26}) {
		t.Fatalf("y = %v", y)
	}
}

func TestGemmLayouts(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	tests := []struct {
		name string
		body string
		want []float64
	}{
		{
			name: "row default",
			body: `{"m":2,"n":2,"k":2,"alpha":1,"a":[1,2,3,4],"lda":2,"b":[5,6,7,8],"ldb":2,"beta":0,"c":[0,0,0,0],"ldc":2}`,
			want: []float64{19, 22, 43, 50},
		},
		{
			name: "col single precision",
			body: `{"precision":"s","layout":"col","m":2,"n":2,"k":2,"alpha":1,"a":[1,3,2,4],"lda":2,"b":[5,7,6,8],"ldb":2,"beta":0,"c":[0,0,0,0],"ldc":2}`,
			want: []float64{19, 43, 22, 50},
		},
		{
			name: "transposed A",
			body: `{"trans_a":"T","m":2,"n":2,"k":2,"alpha":1,"a":[1,3,2,4],"lda":2,"b":[5,6,7,8],"ldb":2,"beta":1,"c":[1,1,1,1],"ldc":2}`,
			want: []float64{20, 23, 44, 51},
		},
	}
	for _, tt := range tests {
		rec := doJSON(t, e, http.MethodPost, "/v1/gemm", tt.body)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d body=%s", tt.name, rec.Code, rec.Body.String())
		}
		if c := decode[GemmResponse](t, rec).C; !slices.Equal(c, tt.want) {
			t.Fatalf("%s: C = %v, want %v", tt.name, c, tt.want)
		}
	}
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		typ    string
		param  string
	}{
		{"malformed json", "/v1/dot", `{"n":`, http.StatusBadRequest, "invalid_request_error", ""},
		{"unknown field", "/v1/dot", `{"n":1,"bogus":true}`, http.StatusBadRequest, "invalid_request_error", ""},
		{"bad precision", "/v1/dot", `{"precision":"q","n":1,"x":[1],"y":[1]}`, http.StatusBadRequest, "invalid_request_error", ""},
		{"zero increment", "/v1/axpy", `{"n":1,"alpha":1,"x":[1],"incx":0,"y":[1]}`, http.StatusBadRequest, "invalid_argument", "incx"},
		{"bad layout", "/v1/gemm", `{"layout":"diagonal","m":1,"n":1,"k":1}`, http.StatusBadRequest, "invalid_request_error", ""},
		{"small lda", "/v1/gemm", `{"m":1,"n":2,"k":2,"a":[1,2],"lda":1,"b":[1,2,3,4],"ldb":2,"c":[0,0],"ldc":2}`, http.StatusBadRequest, "invalid_argument", "lda"},
		{"short y", "/v1/axpy", `{"n":3,"alpha":1,"x":[1,2,3],"y":[1]}`, http.StatusInternalServerError, "backend_fault", ""},
		{"batch size mismatch", "/v1/batch/gemm", `{"trans_a":["N"],"trans_b":["N"],"m":[1,1],"n":[1],"k":[1],"alpha":[1],"a":[[1]],"lda":[1],"b":[[1]],"ldb":[1],"beta":[0],"c":[[0]],"ldc":[1],"batch_count":3}`, http.StatusBadRequest, "size_mismatch", "m"},
	}
	for _, tt := range tests {
		rec := doJSON(t, e, http.MethodPost, tt.path, tt.body)
		if rec.Code != tt.status {
			t.Fatalf("%s: status %d, want %d body=%s", tt.name, rec.Code, tt.status, rec.Body.String())
		}
		body := decode[errorEnvelope](t, rec).Error
		if body.Type != tt.typ || body.Param != tt.param {
			t.Fatalf("%s: error = %+v, want type %q param %q", tt.name, body, tt.typ, tt.param)
		}
	}
}

func TestBatchGemm(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t)
	body := `{"trans_a":["N"],"trans_b":["N"],"m":[1],"n":[1],"k":[1],
		"alpha":[1,2,3],"a":[[2]],"lda":[1],"b":[[5]],"ldb":[1],"beta":[0],
		"c":[[0],[0],[0]],"ldc":[1],"batch_count":3}`
	rec := doJSON(t, e, http.MethodPost, "/v1/batch/gemm", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", rec.Code, rec.Body.String())
	}
	resp := decode[BatchGemmResponse](t, rec)
	for i, c := range resp.C {
		if want := float64(10 * (i + 1)); len(c) != 1 || c[0] != want {
			t.Fatalf("C[%d] = %v, want [%v]", i, c, want)
		}
	}
	if !slices.Equal(resp.Info, []int64{0, 0, 0}) {
		t.Fatalf("info = %v", resp.Info)
	}

	bad := strings.Replace(body, `"m":[1]`, `"m":[1,-1,1]`, 1)
	rec = doJSON(t, e, http.MethodPost, "/v1/batch/gemm", bad)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d body=%s", rec.Code, rec.Body.String())
	}
	eb := decode[errorEnvelope](t, rec).Error
	if eb.Item == nil || *eb.Item != 1 || eb.Code != -4 {
		t.Fatalf("error = %+v", eb)
	}
}

func TestBatchCountBoundedBeforeAllocation(t *testing.T) {
	t.Parallel()

	server, err := NewServer(Config{MaxBatchCount: 8})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	e := echo.New()
	server.Register(e)

	for _, count := range []string{"9", "1000000000", "4611686018427387904"} {
		body := `{"trans_a":["N"],"trans_b":["N"],"m":[1],"n":[1],"k":[1],"alpha":[1],"a":[[1]],"lda":[1],
			"b":[[1]],"ldb":[1],"beta":[0],"c":[[0]],"ldc":[1],"batch_count":` + count + `}`
		rec := doJSON(t, e, http.MethodPost, "/v1/batch/gemm", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("count %s: status %d body=%s", count, rec.Code, rec.Body.String())
		}
		eb := decode[errorEnvelope](t, rec).Error
		if eb.Type != "invalid_argument" || eb.Param != "batch_count" {
			t.Fatalf("count %s: error = %+v", count, eb)
		}
	}

	body := `{"trans_a":["N"],"trans_b":["N"],"m":[1],"n":[1],"k":[1],"alpha":[2],"a":[[3]],"lda":[1],
		"b":[[4]],"ldb":[1],"beta":[0],"c":[[0]],"ldc":[1],"batch_count":1}`
	rec := doJSON(t, e, http.MethodPost, "/v1/batch/gemm", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", rec.Code, rec.Body.String())
	}
	if c := decode[BatchGemmResponse](t, rec).C; len(c) != 1 || c[0][0] != 24 {
		t.Fatalf("C = %v", c)
	}
}
