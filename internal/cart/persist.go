package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type MemoryPersister struct {
	mu        sync.Mutex
	carts     map[string][]byte
	customers map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{
		carts:     make(map[string][]byte),
		customers: make(map[string][]byte),
	}
}

func (p *MemoryPersister) LoadCart(_ context.Context, sessionID string) (*Cart, error) {
	p.mu.Lock()
	data, ok := p.carts[sessionID]
	p.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	c.Customer = nil
	return &c, nil
}

func (p *MemoryPersister) SaveCart(_ context.Context, c *Cart) error {
	stored := *c
	stored.Customer = nil
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.carts[c.SessionID] = data
	p.mu.Unlock()
	return nil
}

func (p *MemoryPersister) LoadCustomer(_ context.Context, sessionID string) (*Customer, error) {
	p.mu.Lock()
	data, ok := p.customers[sessionID]
	p.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var customer Customer
	if err := json.Unmarshal(data, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (p *MemoryPersister) SaveCustomer(_ context.Context, sessionID string, customer *Customer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if customer == nil {
		delete(p.customers, sessionID)
		return nil
	}
	data, err := json.Marshal(customer)
	if err != nil {
		return err
	}
	p.customers[sessionID] = data
	return nil
}

// RedisPersister keeps carts under cart:<session> and cart:<session>:customer.
type RedisPersister struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisPersister(client *redis.Client, ttl time.Duration) *RedisPersister {
	return &RedisPersister{Client: client, TTL: ttl}
}

func (p *RedisPersister) cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (p *RedisPersister) customerKey(sessionID string) string {
	return "cart:" + sessionID + ":customer"
}

func (p *RedisPersister) load(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := p.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dst)
}

func (p *RedisPersister) LoadCart(ctx context.Context, sessionID string) (*Cart, error) {
	var c Cart
	found, err := p.load(ctx, p.cartKey(sessionID), &c)
	if err != nil || !found {
		return nil, err
	}
	c.Customer = nil
	return &c, nil
}

func (p *RedisPersister) SaveCart(ctx context.Context, c *Cart) error {
	stored := *c
	stored.Customer = nil
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return p.Client.Set(ctx, p.cartKey(c.SessionID), data, p.TTL).Err()
}

func (p *RedisPersister) LoadCustomer(ctx context.Context, sessionID string) (*Customer, error) {
	var customer Customer
	found, err := p.load(ctx, p.customerKey(sessionID), &customer)
	if err != nil || !found {
		return nil, err
	}
	return &customer, nil
}

func (p *RedisPersister) SaveCustomer(ctx context.Context, sessionID string, customer *Customer) error {
	if customer == nil {
		return p.Client.Del(ctx, p.customerKey(sessionID)).Err()
	}
	data, err := json.Marshal(customer)
	if err != nil {
		return err
	}
	return p.Client.Set(ctx, p.customerKey(sessionID), data, p.TTL).Err()
}
