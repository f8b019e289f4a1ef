package torn_test

import (
	"encoding/json"

	"github.com/okian/warcut/internal/domain/model"
)

func decodePages(raw string, into map[string]string) error {
	var pages map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &pages); err != nil {
		return err
	}
	for from, body := range pages {
		into[from] = string(body)
	}
	return nil
}

func chainsFixture() []model.Chain {
	return []model.Chain{
		{ID: "1", StartedAt: 100, EndedAt: 125},
		{ID: "2", StartedAt: 200, EndedAt: 260},
	}
}
