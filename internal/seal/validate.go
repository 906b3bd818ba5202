package seal

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrDuplicateName is returned when two descriptors share a name.
var ErrDuplicateName = errors.New("duplicate seal name")

// Validate checks every descriptor and rejects duplicate names. Blank and
// reserved names are accepted; Plan never renders them.
func Validate(list []Descriptor) error {
	seen := make(map[string]int, len(list))
	for i, d := range list {
		if err := validate.Struct(d); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) && len(verrs) > 0 {
				return fmt.Errorf("seal %d (%q): field %s fails %q", i, d.Name, verrs[0].Field(), verrs[0].Tag())
			}
			return fmt.Errorf("seal %d: %w", i, err)
		}
		if IsReserved(d.Name) {
			continue
		}
		if j, dup := seen[d.Name]; dup {
			return fmt.Errorf("%w: %q at %d and %d", ErrDuplicateName, d.Name, j, i)
		}
		seen[d.Name] = i
	}
	return nil
}
