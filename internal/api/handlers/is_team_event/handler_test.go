package is_team_event

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/pkg/logger"
)

type stubService struct {
	got    *int64
	called bool
	result bool
	err    error
}

func (s *stubService) IsTeamEvent(ctx context.Context, eventTypeID *int64) (bool, error) {
	s.called = true
	s.got = eventTypeID
	return s.result, s.err
}

func call(svc SlotService, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandle(t *testing.T) {
	svc := &stubService{result: true}

	w := call(svc, "/api/v1/slots/is-team-event?eventTypeId=12")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isTeamEvent":true}`, w.Body.String())
	require.NotNil(t, svc.got)
	assert.Equal(t, int64(12), *svc.got)
}

func TestHandle_NoEventType(t *testing.T) {
	svc := &stubService{}

	w := call(svc, "/api/v1/slots/is-team-event")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isTeamEvent":false}`, w.Body.String())
	assert.True(t, svc.called)
	assert.Nil(t, svc.got)
}

func TestHandle_InvalidID(t *testing.T) {
	svc := &stubService{}

	w := call(svc, "/api/v1/slots/is-team-event?eventTypeId=abc")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.called)
}

func TestHandle_ServiceError(t *testing.T) {
	w := call(&stubService{err: errors.New("db")}, "/api/v1/slots/is-team-event?eventTypeId=1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
