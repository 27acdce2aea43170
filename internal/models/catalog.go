package models

type Service struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Active      bool    `json:"active"`
}

type Stylist struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Busy bool   `json:"busy"`
}

// Cliente cadastrado no salão
type Contact struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}
