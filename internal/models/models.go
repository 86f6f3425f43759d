package models

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Role         string `gorm:"not null;default:user"    json:"role"`
	CreatedAt    int64  `gorm:"not null"                 json:"created_at"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null"                 json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null;check:price>0"   json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `gorm:"index"                    json:"category"`
	Stock       uint    `gorm:"not null;default:0"       json:"stock"`
	Rating      float64 `gorm:"not null;default:0"       json:"rating"`
	ReviewCount uint    `gorm:"not null;default:0"       json:"review_count"`
	CreatedAt   int64   `gorm:"not null"                 json:"created_at"`
}

type Cart struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null"     json:"user_id"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement"                      json:"id"`
	CartID    uint `gorm:"not null;uniqueIndex:idx_cart_product"         json:"cart_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_cart_product"         json:"product_id"`
	Quantity  uint `gorm:"not null;default:1;check:quantity>0"           json:"quantity"`
}

type Order struct {
	ID              uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference       string      `gorm:"uniqueIndex;not null"     json:"reference"`
	UserID          uint        `gorm:"index;not null"           json:"user_id"`
	TotalAmount     float64     `gorm:"not null"                 json:"total_amount"`
	Status          string      `gorm:"not null"                 json:"status"`
	ShippingAddress string      `gorm:"not null"                 json:"shipping_address"`
	CreatedAt       int64       `gorm:"not null"                 json:"created_at"`
	Items           []OrderItem `gorm:"foreignKey:OrderID"       json:"items"`
}

// OrderItem freezes name and unit price at purchase time. Later product
// edits must not change what a historical order shows.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"            json:"id"`
	OrderID     uint    `gorm:"index;not null"                      json:"order_id"`
	ProductID   uint    `gorm:"not null"                            json:"product_id"`
	ProductName string  `gorm:"not null"                            json:"product_name"`
	Price       float64 `gorm:"not null"                            json:"price"`
	Quantity    uint    `gorm:"not null;default:1;check:quantity>0" json:"quantity"`
}

type Review struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"                      json:"id"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_user_product_review"  json:"user_id"`
	ProductID uint   `gorm:"not null;uniqueIndex:idx_user_product_review"  json:"product_id"`
	Rating    int    `gorm:"not null;check:rating>=1 AND rating<=5"        json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt int64  `gorm:"not null"                                      json:"created_at"`
}

type Wishlist struct {
	ID        uint `gorm:"primaryKey;autoIncrement"                    json:"id"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_product_wish"  json:"user_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_user_product_wish"  json:"product_id"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	Role      string `gorm:"not null"            json:"role"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}
