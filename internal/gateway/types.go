package gateway

// Wire types for the storefront backend API. Monetary amounts travel as plain
// JSON numbers, matching the backend contract; client-side arithmetic converts
// them to decimals at the cart boundary.

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=100"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type Product struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	Price               float64 `json:"price"`
	ImageURL            string  `json:"image_url,omitempty"`
	Capacity            int     `json:"capacity,omitempty"`
	Power               int     `json:"power,omitempty"`
	BatteryType         string  `json:"battery_type,omitempty"`
	Brand               string  `json:"brand,omitempty"`
	Category            string  `json:"category,omitempty"`
	Weight              float64 `json:"weight,omitempty"`
	Dimensions          string  `json:"dimensions,omitempty"`
	Stock               int     `json:"stock"`
	IsActive            bool    `json:"is_active"`
	Rating              float64 `json:"rating"`
	RatingCount         int     `json:"rating_count"`
	ChargeCycles        int     `json:"charge_cycles,omitempty"`
	EstimatedChargeTime float64 `json:"estimated_charge_time,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

// ProductFilters narrows catalog listings. Zero values are omitted from the
// query string.
type ProductFilters struct {
	CapacityMin *int
	CapacityMax *int
	PowerMin    *int
	PowerMax    *int
	PriceMin    *float64
	PriceMax    *float64
	BatteryType string
	Brand       string
	Category    string
}

type ProductPage struct {
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
	Total int       `json:"total"`
	Pages int       `json:"pages"`
	Items []Product `json:"items"`
}

type OrderItem struct {
	ProductID   string  `json:"product_id" validate:"required"`
	ProductName string  `json:"product_name" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,min=1"`
	Price       float64 `json:"price" validate:"required"`
}

type OrderAddress struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required,len=5,numeric"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone,omitempty"`
}

type CreateOrderRequest struct {
	UserID         string       `json:"user_id,omitempty"`
	Items          []OrderItem  `json:"items" validate:"required,min=1,dive"`
	Address        OrderAddress `json:"address" validate:"required"`
	Email          string       `json:"email" validate:"required,email"`
	Notes          string       `json:"notes,omitempty"`
	PaymentMethod  string       `json:"payment_method,omitempty"`
	DeliveryMethod string       `json:"delivery_method,omitempty"`
}

type Order struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id,omitempty"`
	Items          []OrderItem  `json:"items"`
	Address        OrderAddress `json:"address"`
	Email          string       `json:"email"`
	Notes          string       `json:"notes,omitempty"`
	PaymentMethod  string       `json:"payment_method"`
	DeliveryMethod string       `json:"delivery_method"`
	PaymentStatus  string       `json:"payment_status"`
	OrderStatus    string       `json:"order_status"`
	ItemsTotal     float64      `json:"items_total"`
	DeliveryCost   float64      `json:"delivery_cost"`
	TotalAmount    float64      `json:"total_amount"`
	CreatedAt      string       `json:"created_at"`
	UpdatedAt      string       `json:"updated_at"`
}

type Review struct {
	ID         string `json:"id"`
	ProductID  string `json:"product_id"`
	UserID     string `json:"user_id,omitempty"`
	UserName   string `json:"user_name,omitempty"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
	IsApproved bool   `json:"is_approved"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type CreateReviewRequest struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment" validate:"required"`
	UserName string `json:"user_name,omitempty"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

type AdminStats struct {
	Orders struct {
		Total    int            `json:"total"`
		ByStatus map[string]int `json:"by_status"`
		Paid     int            `json:"paid"`
		Pending  int            `json:"pending"`
	} `json:"orders"`
	Revenue struct {
		Total   float64 `json:"total"`
		Paid    float64 `json:"paid"`
		Pending float64 `json:"pending"`
	} `json:"revenue"`
	Products struct {
		Total    int `json:"total"`
		Active   int `json:"active"`
		LowStock int `json:"low_stock"`
	} `json:"products"`
	Users struct {
		Total  int `json:"total"`
		Admins int `json:"admins"`
	} `json:"users"`
	RecentOrders []RecentOrder `json:"recent_orders"`
}

type RecentOrder struct {
	ID            string  `json:"id"`
	OrderStatus   string  `json:"order_status"`
	PaymentStatus string  `json:"payment_status"`
	TotalAmount   float64 `json:"total_amount"`
	CreatedAt     string  `json:"created_at"`
	Email         string  `json:"email"`
}

type CalculatorDevice struct {
	Name             string `json:"name" validate:"required"`
	BatteryCapacity  int    `json:"battery_capacity" validate:"min=0"`
	ChargeCount      int    `json:"charge_count" validate:"required,min=1"`
	PowerConsumption int    `json:"power_consumption,omitempty"`
}

type PowerBankCalcRequest struct {
	Devices    []CalculatorDevice `json:"devices" validate:"required,min=1,dive"`
	UsageDays  int                `json:"usage_days,omitempty"`
	Efficiency float64            `json:"efficiency,omitempty"`
}

type PowerBankCalcResponse struct {
	RequiredCapacity    int            `json:"required_capacity"`
	RecommendedProducts []Product      `json:"recommended_products"`
	CalculationDetails  map[string]any `json:"calculation_details"`
}

type UPSCalcRequest struct {
	PowerConsumption int     `json:"power_consumption" validate:"required,min=1"`
	BackupHours      float64 `json:"backup_hours" validate:"required,gt=0"`
}

type UPSCalcResponse struct {
	RequiredCapacity    int            `json:"required_capacity"`
	RecommendedProducts []Product      `json:"recommended_products"`
	CalculationDetails  map[string]any `json:"calculation_details"`
}
