package model

import "strings"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleEmployee Role = "EMPLOYEE"
	RoleOwner    Role = "OWNER"
	RoleSupplier Role = "SUPPLIER"
)

type CustomerType string

const (
	CustomerOnline CustomerType = "ONLINE"
	CustomerCredit CustomerType = "CREDIT"
)

// User is one row for every kind of person the store deals with. Role
// decides which of the optional fields are meaningful.
type User struct {
	BaseModel
	Username     *string      `db:"username" json:"username"`
	Role         Role         `db:"role" json:"role"`
	FirstName    string       `db:"first_name" json:"first_name"`
	LastName     string       `db:"last_name" json:"last_name"`
	Email        string       `db:"email" json:"email"`
	Phone        string       `db:"phone" json:"phone"`
	Address      string       `db:"address" json:"address"`
	CustomerType CustomerType `db:"customer_type" json:"customer_type"`
	CompanyName  string       `db:"company_name" json:"company_name"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName is how the user shows up on products, receipts and notices.
func (u *User) DisplayName() string {
	switch u.Role {
	case RoleSupplier:
		if u.CompanyName != "" {
			return u.CompanyName
		}
		return u.FullName()
	case RoleCustomer:
		if name := u.FullName(); name != "" {
			return name
		}
		if u.Username != nil {
			return *u.Username
		}
		return u.Phone
	default:
		if u.Username != nil && u.FullName() == "" {
			return *u.Username
		}
		return u.FullName()
	}
}

// ContactAddress is only kept for customers and suppliers.
func (u *User) ContactAddress() string {
	switch u.Role {
	case RoleCustomer, RoleSupplier:
		return u.Address
	default:
		return ""
	}
}
