package store

import (
	"Recipe-Generator/domain"
	"Recipe-Generator/entities"
	"Recipe-Generator/internal/utils"
	"errors"
	"fmt"
)

// Decode validates a record's fields into F. Violations name the table and
// record they came from, e.g. "Recipe-Instructions[rec123].Order".
func Decode[F any](table string, rec entities.Record) (F, error) {
	var out F
	err := utils.DecodeFields(rec.Fields, &out)
	if err == nil {
		return out, nil
	}

	prefix := fmt.Sprintf("%s[%s]", table, rec.ID)
	var many domain.ValidationErrors
	if errors.As(err, &many) {
		for _, v := range many {
			v.Field = qualify(prefix, v.Field)
		}
		return out, many
	}
	var single *domain.ValidationError
	if errors.As(err, &single) {
		single.Field = qualify(prefix, single.Field)
		return out, single
	}
	return out, err
}

func qualify(prefix, field string) string {
	if field == "" {
		return prefix
	}
	return prefix + "." + field
}
