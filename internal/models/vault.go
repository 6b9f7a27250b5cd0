package models

import "time"

// VaultType tags the VaultItem variant.
type VaultType string

// VaultItem variants.
const (
	VaultPassword VaultType = "password"
	VaultAPIKey   VaultType = "apikey"
	VaultValue    VaultType = "value"
)

// Valid reports whether t is a known vault type.
func (t VaultType) Valid() bool {
	return t == VaultPassword || t == VaultAPIKey || t == VaultValue
}

// PasswordPayload holds the password-variant fields of a VaultItem.
type PasswordPayload struct {
	Username string `bson:"username" json:"username"`
	Password string `bson:"password" json:"password"`
}

// APIKeyPayload holds the apikey-variant fields of a VaultItem.
type APIKeyPayload struct {
	APIKey string `bson:"apiKey" json:"apiKey"`
}

// ValuePayload holds the value-variant fields of a VaultItem.
type ValuePayload struct {
	Value string `bson:"value" json:"value"`
}

// VaultItem is a stored credential. Like FolderItem, it is a tagged union:
// exactly one payload pointer is non-nil, matching Type. JSON stays flat with
// nullable per-variant fields (see item_json.go).
type VaultItem struct {
	ID   string    `bson:"_id,omitempty"`
	Name string    `bson:"name"`
	Type VaultType `bson:"type"`

	Password *PasswordPayload `bson:"password,omitempty"`
	APIKey   *APIKeyPayload   `bson:"apiKey,omitempty"`
	Value    *ValuePayload    `bson:"value,omitempty"`

	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewPasswordVaultItem constructs a password-variant VaultItem.
func NewPasswordVaultItem(name string, p PasswordPayload) *VaultItem {
	return &VaultItem{Name: name, Type: VaultPassword, Password: &p}
}

// NewAPIKeyVaultItem constructs an apikey-variant VaultItem.
func NewAPIKeyVaultItem(name string, p APIKeyPayload) *VaultItem {
	return &VaultItem{Name: name, Type: VaultAPIKey, APIKey: &p}
}

// NewValueVaultItem constructs a value-variant VaultItem.
func NewValueVaultItem(name string, p ValuePayload) *VaultItem {
	return &VaultItem{Name: name, Type: VaultValue, Value: &p}
}

// Validate checks the variant contract: exactly the payload matching Type is
// populated.
func (v *VaultItem) Validate() bool {
	switch v.Type {
	case VaultPassword:
		return v.Password != nil && v.APIKey == nil && v.Value == nil
	case VaultAPIKey:
		return v.APIKey != nil && v.Password == nil && v.Value == nil
	case VaultValue:
		return v.Value != nil && v.Password == nil && v.APIKey == nil
	}
	return false
}
