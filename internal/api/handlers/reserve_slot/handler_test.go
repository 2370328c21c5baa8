package reserve_slot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotService/internal/service/slots"
	"github.com/m04kA/SMC-SlotService/internal/service/slots/models"
	"github.com/m04kA/SMC-SlotService/pkg/logger"
)

type stubService struct {
	gotReq    *models.ReserveSlotRequest
	gotHeader string
	res       *models.Reservation
	err       error
}

func (s *stubService) Reserve(ctx context.Context, req *models.ReserveSlotRequest, headerUID string) (*models.Reservation, error) {
	s.gotReq = req
	s.gotHeader = headerUID
	return s.res, s.err
}

const validBody = `{"eventTypeId":3,"slotUtcStartDate":"2025-10-15T10:00:00Z","slotUtcEndDate":"2025-10-15T10:30:00Z","bookingUid":"b-1"}`

func serve(svc SlotService, body, uid string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/slots/reserve", strings.NewReader(body))
	if uid != "" {
		r.Header.Set(HeaderReservationUID, uid)
	}
	w := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(w, r)
	return w
}

func TestHandle_OK(t *testing.T) {
	svc := &stubService{res: &models.Reservation{ID: "r-1", Admitted: true, Reason: "seats_available"}}

	w := serve(svc, validBody, "r-1")

	require.Equal(t, http.StatusOK, w.Code)
	var resp ReserveSlotResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ReserveSlotResponse{UID: "r-1", Admitted: true, Reason: "seats_available"}, resp)

	assert.Equal(t, "r-1", svc.gotHeader)
	assert.Equal(t, int64(3), svc.gotReq.EventTypeID)
	assert.Equal(t, "b-1", svc.gotReq.BookingUID)
	assert.Equal(t, 30, int(svc.gotReq.SlotEnd.Sub(svc.gotReq.SlotStart).Minutes()))
}

func TestHandle_NotAdmitted(t *testing.T) {
	svc := &stubService{res: &models.Reservation{ID: "gen", Admitted: false, Reason: "slot_full"}}

	w := serve(svc, validBody, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":"gen","admitted":false,"reason":"slot_full"}`, w.Body.String())
	assert.Empty(t, svc.gotHeader)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "bad json", body: `{`, status: http.StatusBadRequest},
		{name: "bad date", body: `{"eventTypeId":3,"slotUtcStartDate":"tomorrow","slotUtcEndDate":"2025-10-15T10:30:00Z"}`, status: http.StatusBadRequest},
		{name: "invalid input", body: validBody, err: slots.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "not found", body: validBody, err: slots.ErrEventTypeNotFound, status: http.StatusNotFound},
		{name: "reservation failed", body: validBody, err: fmt.Errorf("%w: timeout", slots.ErrReservationFailed), status: http.StatusBadRequest},
		{name: "internal", body: validBody, err: slots.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(&stubService{err: tt.err}, tt.body, "")
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestHandle_ReservationFailedMessage(t *testing.T) {
	w := serve(&stubService{err: slots.ErrReservationFailed}, validBody, "")
	assert.Contains(t, w.Body.String(), msgReservationFailed)
}
