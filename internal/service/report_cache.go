package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/gema-grades/internal/dto"
)

const reportCachePrefix = "grades:report:"

// reportCacheKey scopes a report to the database it was read from, so stores sharing
// one redis never serve each other's results.
func reportCacheKey(source string, params dto.ReportParams) string {
	payload, _ := json.Marshal(params)
	hash := sha256.New()
	hash.Write([]byte(source))
	hash.Write([]byte{0})
	hash.Write(payload)
	return reportCachePrefix + hex.EncodeToString(hash.Sum(nil)[:12])
}

// invalidateReportCache drops every cached report; reports built before a reseed are stale.
func invalidateReportCache(ctx context.Context, client *redis.Client) (int, error) {
	if client == nil {
		return 0, nil
	}

	var keys []string
	iter := client.Scan(ctx, 0, reportCachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	if err := client.Del(ctx, keys...).Err(); err != nil {
		return 0, err
	}
	return len(keys), nil
}
