package cache

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
)

func TestRedisCache_Rawdel(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectDel("dexpricer:pool-state:uniswapv2").SetVal(1)

	c := NewRedisCache(client)

	if err := c.Rawdel(context.Background(), "dexpricer:pool-state:uniswapv2"); err != nil {
		t.Fatalf("rawdel: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
