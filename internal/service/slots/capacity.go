package slots

import "github.com/m04kA/SMC-SlotService/internal/domain"

// Decision решение политики вместимости
type Decision struct {
	Admit  bool
	Reason string
}

// Admit решает, можно ли принять новое удержание слота
//
// seatsPerTimeSlot == nil или <= 0 - число мест не ограничено, удержание принимается всегда.
// attendeeCount == nil или 0 для события с местами - отказ: отсутствие данных
// об участниках считается "к слоту нельзя присоединиться", а не "слот пуст".
// Иначе удержание принимается, если осталось хотя бы одно место.
//
// TODO: подтвердить у продукта, что отказ при неизвестном числе участников ожидаем
func Admit(seatsPerTimeSlot *int, attendeeCount *int) Decision {
	if seatsPerTimeSlot == nil || *seatsPerTimeSlot <= 0 {
		return Decision{Admit: true, Reason: domain.ReasonSeatsUnlimited}
	}

	if attendeeCount == nil || *attendeeCount == 0 {
		return Decision{Admit: false, Reason: domain.ReasonAttendeesUnknown}
	}

	if *seatsPerTimeSlot-*attendeeCount < 1 {
		return Decision{Admit: false, Reason: domain.ReasonSlotFull}
	}

	return Decision{Admit: true, Reason: domain.ReasonSeatsAvailable}
}
