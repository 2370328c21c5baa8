package get_busy_times

import "fmt"

func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}
	if !req.DateFrom.IsZero() && !req.DateTo.IsZero() && req.DateTo.Before(req.DateFrom) {
		return fmt.Errorf("%w: dateTo must not be before dateFrom", ErrInvalidInput)
	}
	return nil
}
