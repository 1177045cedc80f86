package utils

import (
	"context"
	"encoding/json"
	"errors"
	"etix/src/lib"
	"etix/src/types"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cartTTL = 7 * 24 * time.Hour

func cartKey(sessionId string) string {
	return fmt.Sprintf("session:%s:cart", sessionId)
}

// GetCart loads the session's cart lines. A missing key is an empty cart.
func GetCart(sessionId string) ([]types.CartItem, error) {
	rd := lib.GetRedisClient()
	res, err := rd.Get(context.Background(), cartKey(sessionId)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []types.CartItem{}, nil
		}
		return nil, err
	}
	var items []types.CartItem
	if err := json.Unmarshal([]byte(res), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func SaveCart(sessionId string, items []types.CartItem) error {
	body, err := json.Marshal(&items)
	if err != nil {
		return err
	}
	rd := lib.GetRedisClient()
	return rd.SetEx(context.Background(), cartKey(sessionId), string(body), cartTTL).Err()
}

func ClearCart(sessionId string) error {
	rd := lib.GetRedisClient()
	return rd.Del(context.Background(), cartKey(sessionId)).Err()
}
