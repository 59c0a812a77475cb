package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openebl/leafca/pkg/util"
	"github.com/sirupsen/logrus"
)

type ContextKey string

const (
	REQUEST_ID_HEADER      = "X-Request-Id"
	REQUEST_ID_CONTEXT_KEY = ContextKey("request_id")
)

// RequestID returns the id Log assigned to the request of ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(REQUEST_ID_CONTEXT_KEY).(string)
	return id
}

type ResponseInterceptor struct {
	writer http.ResponseWriter
	Status int
	Body   []byte
}

func NewResponseInterceptor(w http.ResponseWriter) *ResponseInterceptor {
	return &ResponseInterceptor{writer: w, Status: http.StatusOK}
}

func (r *ResponseInterceptor) WriteHeader(status int) {
	r.Status = status
	r.writer.WriteHeader(status)
}

func (r *ResponseInterceptor) Write(b []byte) (int, error) {
	if r.Status/100 != 2 {
		r.Body = append(r.Body, b...)
	}
	return r.writer.Write(b)
}

func (r *ResponseInterceptor) Header() http.Header {
	return r.writer.Header()
}

func (r *ResponseInterceptor) Returned() string {
	if len(r.Body) > 0 {
		return fmt.Sprintf("%d %s", r.Status, string(r.Body))
	}
	return fmt.Sprintf("%d", r.Status)
}

func (r *ResponseInterceptor) IsSystemError() bool {
	return r.Status/100 == 5
}

// Log tags every request with an id, echoed in the X-Request-Id response header, and logs its outcome.
func Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(REQUEST_ID_HEADER)
		if requestID == "" {
			requestID = util.NewUUID()
		}
		w.Header().Set(REQUEST_ID_HEADER, requestID)
		r = r.WithContext(context.WithValue(r.Context(), REQUEST_ID_CONTEXT_KEY, requestID))

		interceptor := NewResponseInterceptor(w)
		logger := logrus.WithField("request_id", requestID)
		logger.Debugf("Request %s %s started.", r.Method, r.URL.Path)
		next.ServeHTTP(interceptor, r)
		if interceptor.IsSystemError() {
			logger.Errorf("Request %s %s returned %s", r.Method, r.URL.Path, interceptor.Returned())
		} else {
			logger.Debugf("Request %s %s returned %s", r.Method, r.URL.Path, interceptor.Returned())
		}
	})
}
