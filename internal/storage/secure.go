package storage

import "context"

//go:generate moq -out secure_mock.go . SecureStorage

// AccessPolicy describes the access control applied to a stored item
type AccessPolicy int

const (
	// AccessPolicyNone - значение доступно без дополнительного подтверждения
	AccessPolicyNone AccessPolicy = iota

	// AccessPolicyBiometryCurrentSet - чтение требует биометрического
	// подтверждения текущим набором биометрии; значение доступно только
	// на разблокированном устройстве и только на этом устройстве
	AccessPolicyBiometryCurrentSet
)

// SecureStorage defines interface to the platform secure credential store.
// On mobile targets it is backed by the native keychain/keystore; the
// boltdb and sqlite implementations serve desktop builds and tests.
type SecureStorage interface {
	// GetItem retrieves the value stored under key.
	// Returns ErrItemNotFound if the key doesn't exist.
	// Reading a policy-protected item may trigger a user prompt;
	// dismissal is reported as ErrPromptCancelled.
	GetItem(ctx context.Context, key string) ([]byte, error)

	// SetItem stores value under key with no access policy
	SetItem(ctx context.Context, key string, value []byte) error

	// SetItemWithPolicy stores value under key guarded by the given policy
	SetItemWithPolicy(ctx context.Context, key string, value []byte, policy AccessPolicy) error

	// DeleteItem removes the value stored under key.
	// Returns ErrItemNotFound if the key doesn't exist.
	DeleteItem(ctx context.Context, key string) error
}

// BiometryModality describes the biometric hardware available on the device
type BiometryModality string

const (
	BiometryNone        BiometryModality = "none"
	BiometryFingerprint BiometryModality = "fingerprint"
	BiometryFace        BiometryModality = "face"
	BiometryIris        BiometryModality = "iris"
)

// CapabilityChecker reports the biometric modality supported by the device
type CapabilityChecker interface {
	// SupportedBiometry returns the available modality, BiometryNone if absent
	SupportedBiometry(ctx context.Context) (BiometryModality, error)
}
