package delete_selected_slot

// DeleteSelectedSlotResponse HTTP ответ
type DeleteSelectedSlotResponse struct {
	UID string `json:"uid"`
}
