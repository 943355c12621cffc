package models

// PinType определяет способ хранения и ввода PIN-кода
type PinType string

const (
	// PinTypeUnset - PIN не настроен
	PinTypeUnset PinType = "unset"
	// PinTypeCustom - PIN вводится вручную при каждой проверке
	PinTypeCustom PinType = "custom"
	// PinTypeDevice - PIN дополнительно сохранен за биометрической защитой устройства
	PinTypeDevice PinType = "device"
)

// Valid проверяет, что значение PinType является одним из известных вариантов
func (t PinType) Valid() bool {
	switch t {
	case PinTypeUnset, PinTypeCustom, PinTypeDevice:
		return true
	}
	return false
}

// CacheEntry представляет сохраняемую часть записи кеша секретов.
// Сырой PIN никогда не сериализуется - только peppered hash и timestamp.
type CacheEntry struct {
	Account   string `json:"account"`             // имя аккаунта (namespace ключ)
	Secret    string `json:"secret,omitempty"`    // hex-encoded peppered password hash
	Timestamp int64  `json:"timestamp,omitempty"` // время записи в epoch milliseconds
}
