package customdict

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const DefaultKey = "spellfix:custom_words"

// CustomDict keeps user supplied words in a Redis set.
type CustomDict struct {
	client redis.Cmdable
	key    string
}

// New creates a CustomDict storing its words under key. An empty key
// selects DefaultKey.
func New(client redis.Cmdable, key string) *CustomDict {
	if key == "" {
		key = DefaultKey
	}
	return &CustomDict{client: client, key: key}
}

// Add inserts a word into the custom dictionary.
func (cd *CustomDict) Add(ctx context.Context, word string) error {
	return cd.client.SAdd(ctx, cd.key, word).Err()
}

// Remove deletes a word from the custom dictionary.
func (cd *CustomDict) Remove(ctx context.Context, word string) error {
	return cd.client.SRem(ctx, cd.key, word).Err()
}

// All returns all words stored in the custom dictionary.
func (cd *CustomDict) All(ctx context.Context) ([]string, error) {
	return cd.client.SMembers(ctx, cd.key).Result()
}
