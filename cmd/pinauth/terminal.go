package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ettawallet/pinauth/internal/pincode"
	"github.com/ettawallet/pinauth/internal/storage"
)

func readInput(prompt string) (string, error) {
	fmt.Printf("%s", prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func readSecret(prompt string) (string, error) {
	fmt.Printf("%s", prompt)
	fd := int(os.Stdin.Fd())
	pwBytes, err := term.ReadPassword(fd)
	fmt.Println("")
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

// terminalNavigator исполняет роль PIN-entry экрана: читает PIN с
// терминала и резолвит запрос. Пустой ввод трактуется как отмена.
type terminalNavigator struct{}

func (terminalNavigator) RequestPinEntry(req *pincode.EntryRequest) {
	go func() {
		pin, err := readSecret("Enter PIN (empty to cancel): ")
		if err != nil || pin == "" {
			req.Cancel()
			return
		}
		req.Resolve(pin)
	}()
}

// terminalPrompter имитирует биометрический prompt подтверждением y/n
func terminalPrompter(ctx context.Context, key string) (bool, error) {
	answer, err := readInput("Biometric check - confirm access? [y/N]: ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}

// terminalCapability сообщает фиксированную биометрическую модальность
type terminalCapability struct{}

func (terminalCapability) SupportedBiometry(ctx context.Context) (storage.BiometryModality, error) {
	return storage.BiometryFingerprint, nil
}
