package dto

// ChooseProductResponse describes the product picked by code.
type ChooseProductResponse struct {
	ProductID    string `json:"product_id"`
	ProductPrice int    `json:"product_price"`
	ProductName  string `json:"product_name"`
}

// PayForProductRequest describes coins inserted to buy a product.
type PayForProductRequest struct {
	ProductID   string `json:"product_id" binding:"required"`
	ProductQty  int    `json:"product_qty"`
	PaymentType string `json:"payment_type" binding:"required"`
	Coins       Coins  `json:"coins"`
}

// PayForProductResponse holds change per denomination and the amount charged.
type PayForProductResponse struct {
	Coin01Qty  int `json:"coin_01_qty"`
	Coin05Qty  int `json:"coin_05_qty"`
	Coin10Qty  int `json:"coin_10_qty"`
	Coin25Qty  int `json:"coin_25_qty"`
	Coin50Qty  int `json:"coin_50_qty"`
	Coin100Qty int `json:"coin_100_qty"`
	AmountPaid int `json:"amount_paid"`
}
