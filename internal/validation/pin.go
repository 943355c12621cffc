package validation

import (
	"fmt"
	"regexp"
)

// PinPattern определяет допустимый формат PIN-кода: ровно 6 десятичных цифр
var PinPattern = regexp.MustCompile(`^[0-9]{6}$`)

// PinLength длина PIN-кода в символах
const PinLength = 6

// blockedPins - фиксированный blocklist тривиально угадываемых PIN-кодов:
// повторяющиеся цифры и последовательные возрастающие/убывающие ряды
// (включая переход через 9/0)
var blockedPins = map[string]struct{}{
	"000000": {}, "111111": {}, "222222": {}, "333333": {}, "444444": {},
	"555555": {}, "666666": {}, "777777": {}, "888888": {}, "999999": {},
	"012345": {}, "123456": {}, "234567": {}, "345678": {}, "456789": {},
	"567890": {}, "678901": {}, "789012": {}, "890123": {}, "901234": {},
	"543210": {}, "654321": {}, "765432": {}, "876543": {}, "987654": {},
	"098765": {}, "109876": {}, "210987": {}, "321098": {}, "432109": {},
}

// ValidatePin проверяет, что PIN соответствует формату (6 цифр)
// и не входит в blocklist тривиальных последовательностей
func ValidatePin(pin string) error {
	if pin == "" {
		return fmt.Errorf("pin cannot be empty")
	}

	if !PinPattern.MatchString(pin) {
		return fmt.Errorf("pin must be exactly %d digits", PinLength)
	}

	if _, blocked := blockedPins[pin]; blocked {
		return fmt.Errorf("pin is too easy to guess")
	}

	return nil
}

// IsBlockedPin сообщает, входит ли PIN в blocklist.
// Формат при этом не проверяется.
func IsBlockedPin(pin string) bool {
	_, blocked := blockedPins[pin]
	return blocked
}

// BlockedPins возвращает копию blocklist для тестов и UI-подсказок
func BlockedPins() []string {
	pins := make([]string, 0, len(blockedPins))
	for pin := range blockedPins {
		pins = append(pins, pin)
	}
	return pins
}
