package dto

import "time"

// LoginRequest describes operator credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest describes a new machine owner.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProductResponse describes product stock in a machine.
type ProductResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"`
}

// MachineResponse describes machine state for its operator.
type MachineResponse struct {
	ID       string            `json:"id"`
	OwnerID  string            `json:"owner_id"`
	State    string            `json:"state"`
	Coins    Coins             `json:"coins"`
	Products []ProductResponse `json:"products"`
}

type OrderItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	ProductCode string `json:"product_code"`
	UnitPrice   int    `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Price       int    `json:"price"`
}

// OrderResponse describes an order after an operator action.
type OrderResponse struct {
	ID          string              `json:"id"`
	MachineID   string              `json:"machine_id"`
	Status      string              `json:"status"`
	TotalAmount int                 `json:"total_amount"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}
