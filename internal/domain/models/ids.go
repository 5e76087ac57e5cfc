// internal/domain/models/ids.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Each entity has its own identifier type so a user id can never be passed
// where an organization id is expected. All of them share the ObjectID
// representation in Mongo and the hex form on the wire.

// UserID identifies a User.
type UserID primitive.ObjectID

// OrganizationID identifies an Organization.
type OrganizationID primitive.ObjectID

// InviteID identifies an Invite.
type InviteID primitive.ObjectID

// TransactionID identifies a Transaction.
type TransactionID primitive.ObjectID

func NewUserID() UserID                 { return UserID(primitive.NewObjectID()) }
func NewOrganizationID() OrganizationID { return OrganizationID(primitive.NewObjectID()) }
func NewInviteID() InviteID             { return InviteID(primitive.NewObjectID()) }
func NewTransactionID() TransactionID   { return TransactionID(primitive.NewObjectID()) }

func (id UserID) Hex() string         { return primitive.ObjectID(id).Hex() }
func (id OrganizationID) Hex() string { return primitive.ObjectID(id).Hex() }
func (id InviteID) Hex() string       { return primitive.ObjectID(id).Hex() }
func (id TransactionID) Hex() string  { return primitive.ObjectID(id).Hex() }

func (id UserID) IsZero() bool         { return primitive.ObjectID(id).IsZero() }
func (id OrganizationID) IsZero() bool { return primitive.ObjectID(id).IsZero() }
func (id InviteID) IsZero() bool       { return primitive.ObjectID(id).IsZero() }
func (id TransactionID) IsZero() bool  { return primitive.ObjectID(id).IsZero() }

func (id UserID) String() string         { return id.Hex() }
func (id OrganizationID) String() string { return id.Hex() }
func (id InviteID) String() string       { return id.Hex() }
func (id TransactionID) String() string  { return id.Hex() }

func (id UserID) MarshalText() ([]byte, error)         { return []byte(id.Hex()), nil }
func (id OrganizationID) MarshalText() ([]byte, error) { return []byte(id.Hex()), nil }
func (id InviteID) MarshalText() ([]byte, error)       { return []byte(id.Hex()), nil }
func (id TransactionID) MarshalText() ([]byte, error)  { return []byte(id.Hex()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	oid, err := primitive.ObjectIDFromHex(string(b))
	if err != nil {
		return err
	}
	*id = UserID(oid)
	return nil
}

func (id *OrganizationID) UnmarshalText(b []byte) error {
	oid, err := primitive.ObjectIDFromHex(string(b))
	if err != nil {
		return err
	}
	*id = OrganizationID(oid)
	return nil
}

func (id *InviteID) UnmarshalText(b []byte) error {
	oid, err := primitive.ObjectIDFromHex(string(b))
	if err != nil {
		return err
	}
	*id = InviteID(oid)
	return nil
}

func (id *TransactionID) UnmarshalText(b []byte) error {
	oid, err := primitive.ObjectIDFromHex(string(b))
	if err != nil {
		return err
	}
	*id = TransactionID(oid)
	return nil
}

// ParseUserID parses a hex ObjectID into a UserID.
func ParseUserID(s string) (UserID, error) {
	var id UserID
	err := id.UnmarshalText([]byte(s))
	return id, err
}

// ParseOrganizationID parses a hex ObjectID into an OrganizationID.
func ParseOrganizationID(s string) (OrganizationID, error) {
	var id OrganizationID
	err := id.UnmarshalText([]byte(s))
	return id, err
}

// ParseInviteID parses a hex ObjectID into an InviteID.
func ParseInviteID(s string) (InviteID, error) {
	var id InviteID
	err := id.UnmarshalText([]byte(s))
	return id, err
}

// ParseTransactionID parses a hex ObjectID into a TransactionID.
func ParseTransactionID(s string) (TransactionID, error) {
	var id TransactionID
	err := id.UnmarshalText([]byte(s))
	return id, err
}
