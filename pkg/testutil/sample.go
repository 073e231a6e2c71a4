package testutil

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/internal/repository"
	"github.com/questx-lab/spinwin/pkg/crypto"
)

// SampleGameResult creates a new game result in database with randomized id
// and code. The sample can be overwritten by non-zero fields of init.
func SampleGameResult(ctx context.Context, init *entity.GameResult) (entity.GameResult, error) {
	sample := &entity.GameResult{
		Base:      entity.Base{ID: uuid.NewString()},
		Name:      "Sample Player",
		WhatsApp:  "+911234567890",
		Game:      entity.SpinAndWin,
		Reward:    "10% Off",
		Code:      crypto.GenerateRandomFrom(crypto.UpperAlphaNum, 12),
		Timestamp: time.Now().UnixMilli(),
		IPAddress: "127.0.0.1",
		UserAgent: "testutil",
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	err := repository.NewGameResultRepository().Create(ctx, sample)
	return *sample, err
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
