package vendors

import (
	"database/sql"
	"time"

	"jessica-sub/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

// AddRequest is the body of POST /vendors/add.
type AddRequest struct {
	UserID  string  `json:"user_id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Trade   *string `json:"trade"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Country *string `json:"country"`
}

// RemoveRequest is the body of POST /vendors/remove. ID wins over Name.
type RemoveRequest struct {
	UserID string  `json:"user_id"`
	ID     *int64  `json:"id"`
	Name   *string `json:"name"`
}

type RemoveResponse struct {
	Status string `json:"status"`
	ID     *int64 `json:"id"`
}

type Vendor struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	Trade     *string   `json:"trade"`
	City      *string   `json:"city"`
	State     *string   `json:"state"`
	Country   *string   `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchResult is one autocomplete hit.
type SearchResult struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Trade   *string `json:"trade"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Country *string `json:"country"`
}

type ServiceDependencies struct {
	DB     *sql.DB
	Cache  redis.Cmdable
	Logger logger.Logger
}
