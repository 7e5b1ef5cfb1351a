package memory_test

import (
	"testing"

	"github.com/warp/vacancy-engine/sickpay"
	"github.com/warp/vacancy-engine/store/memory"
	"github.com/warp/vacancy-engine/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) sickpay.Store { return memory.New() })
}
