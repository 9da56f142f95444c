package domain

import "time"

type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Document  string
	Address   Address
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Address struct {
	CEP          string
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
}
