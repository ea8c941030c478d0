package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/pkg/circuitbreaker"
)

// 缓存键格式
// library:book:{id} → 图书详情JSON
const bookKeyFormat = "library:book:%d"

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = redis.Nil

// BookCache 图书详情缓存(Cache-Aside模式)
// 设计说明:
// 1. 读路径:先查缓存,未命中回源数据库并回填
// 2. 写路径:图书信息或副本计数变更后删除缓存(下次读时重建),
//    不直接更新缓存值,避免并发写导致的脏数据
// 3. 所有Redis访问经过熔断器:Redis故障时快速失败,调用方直接回源,
//    不在每个请求上等待Redis超时
// 4. 缓存故障永远不阻断业务:Get失败按未命中处理,Set/Delete失败只记日志
type BookCache struct {
	client  *redis.Client
	breaker *circuitbreaker.CircuitBreaker
	ttl     time.Duration
}

// cachedBook 缓存存储结构
// 独立于领域实体定义,缓存格式的演进不影响domain层
type cachedBook struct {
	ID              uint   `json:"id"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Publisher       string `json:"publisher"`
	Price           int64  `json:"price"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
	Description     string `json:"description"`
	CreatedAt       int64  `json:"created_at"` // Unix秒
	UpdatedAt       int64  `json:"updated_at"`
}

// NewBookCache 创建图书缓存
func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	cb := circuitbreaker.NewCircuitBreaker("book-cache", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("[cache] 熔断器 %s 状态变化: %s → %s", name, from, to)
	})

	return &BookCache{
		client:  client,
		breaker: cb,
		ttl:     ttl,
	}
}

// Get 读取图书缓存
// 未命中返回ErrCacheMiss;熔断器打开返回circuitbreaker.ErrOpenState,
// 调用方对两者的处理一致:回源数据库
func (c *BookCache) Get(ctx context.Context, id uint) (*book.Book, error) {
	var data string
	err := c.breaker.Execute(func() error {
		var execErr error
		data, execErr = c.client.Get(ctx, c.key(id)).Result()
		// 缓存未命中是正常情况,不计入熔断器失败
		if execErr == redis.Nil {
			return nil
		}
		return execErr
	})
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, ErrCacheMiss
	}

	var cached cachedBook
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		// 缓存内容损坏,删除后按未命中处理
		c.Delete(ctx, id)
		return nil, ErrCacheMiss
	}

	return toEntity(&cached), nil
}

// Set 写入图书缓存
// 失败只记日志不返回错误:缓存是加速层,不能阻断业务
func (c *BookCache) Set(ctx context.Context, b *book.Book) {
	data, err := json.Marshal(toCached(b))
	if err != nil {
		log.Printf("[cache] 序列化图书缓存失败: %v", err)
		return
	}

	err = c.breaker.Execute(func() error {
		return c.client.Set(ctx, c.key(b.ID), data, c.ttl).Err()
	})
	if err != nil && err != circuitbreaker.ErrOpenState {
		log.Printf("[cache] 写入图书缓存失败: book_id=%d err=%v", b.ID, err)
	}
}

// Delete 删除图书缓存(信息变更、借出、归还后调用)
// 失败只记日志:TTL兜底,最长脏读窗口等于缓存过期时间
func (c *BookCache) Delete(ctx context.Context, id uint) {
	err := c.breaker.Execute(func() error {
		return c.client.Del(ctx, c.key(id)).Err()
	})
	if err != nil && err != circuitbreaker.ErrOpenState {
		log.Printf("[cache] 删除图书缓存失败: book_id=%d err=%v", id, err)
	}
}

func (c *BookCache) key(id uint) string {
	return fmt.Sprintf(bookKeyFormat, id)
}

// toCached 领域实体 → 缓存结构
func toCached(b *book.Book) *cachedBook {
	return &cachedBook{
		ID:              b.ID,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		Publisher:       b.Publisher,
		Price:           b.Price,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Description:     b.Description,
		CreatedAt:       b.CreatedAt.Unix(),
		UpdatedAt:       b.UpdatedAt.Unix(),
	}
}

// toEntity 缓存结构 → 领域实体
func toEntity(cached *cachedBook) *book.Book {
	return &book.Book{
		ID:              cached.ID,
		ISBN:            cached.ISBN,
		Title:           cached.Title,
		Author:          cached.Author,
		Publisher:       cached.Publisher,
		Price:           cached.Price,
		TotalCopies:     cached.TotalCopies,
		AvailableCopies: cached.AvailableCopies,
		Description:     cached.Description,
		CreatedAt:       time.Unix(cached.CreatedAt, 0),
		UpdatedAt:       time.Unix(cached.UpdatedAt, 0),
	}
}
