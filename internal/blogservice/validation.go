package blogservice

import (
	"github.com/harutoki/blogdeck/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, 200), "title", "must be at most 200 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

func validateUUID(v *common.Validator, id, name string) {
	v.Check(id != "", name, "must be provided")
	if id != "" {
		v.Check(v.CheckUUID(id), name, "must be a valid UUID")
	}
}
