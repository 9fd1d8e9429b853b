package checkout

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Field is one input of the payment form.
type Field string

// remember to add new fields to the validators map and to Fields
const (
	FieldCountry    Field = "country"
	FieldCity       Field = "city"
	FieldStreet     Field = "street"
	FieldZip        Field = "zip"
	FieldFullName   Field = "fullName"
	FieldCardNumber Field = "cardNumber"
	FieldExpiration Field = "expiration"
	FieldCVV        Field = "cvv"
)

var (
	countryRe    = regexp.MustCompile(`^[A-Za-z ]{2,}$`)
	cityRe       = regexp.MustCompile(`^[A-Za-z .'-]{2,}$`)
	streetRe     = regexp.MustCompile(`^[A-Za-z0-9 .'-]{5,}$`)
	zipRe        = regexp.MustCompile(`^[A-Za-z0-9\- ]{4,10}$`)
	cardNumberRe = regexp.MustCompile(`^[0-9]{16}$`)
	expirationRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^[0-9]{3,4}$`)

	cardSeparatorRe = regexp.MustCompile(`[\s-]`)
)

type validator struct {
	label string
	hint  string
	valid func(string) bool
}

var validators = map[Field]validator{
	FieldCountry: {
		label: "Country",
		hint:  "letters and spaces, at least 2",
		valid: countryRe.MatchString,
	},
	FieldCity: {
		label: "City",
		hint:  "letters, spaces, . ' -, at least 2",
		valid: cityRe.MatchString,
	},
	FieldStreet: {
		label: "Street",
		hint:  "letters, digits, spaces, . ' -, at least 5",
		valid: streetRe.MatchString,
	},
	FieldZip: {
		label: "ZIP Code",
		hint:  "4 to 10 letters, digits, spaces or dashes",
		valid: zipRe.MatchString,
	},
	FieldFullName: {
		label: "Full Name (on card)",
		hint:  "at least 3 characters",
		valid: func(v string) bool { return len([]rune(strings.TrimSpace(v))) >= 3 },
	},
	FieldCardNumber: {
		label: "Card Number",
		hint:  "16 digits",
		valid: func(v string) bool { return cardNumberRe.MatchString(cardSeparatorRe.ReplaceAllString(v, "")) },
	},
	FieldExpiration: {
		label: "Expiration (MM/YY)",
		hint:  "MM/YY",
		valid: expirationRe.MatchString,
	},
	FieldCVV: {
		label: "CVV",
		hint:  "3 or 4 digits",
		valid: cvvRe.MatchString,
	},
}

// Fields lists the form fields in display order.
func Fields() []Field {
	return []Field{
		FieldCountry, FieldCity, FieldZip, FieldStreet,
		FieldFullName, FieldCardNumber, FieldExpiration, FieldCVV,
	}
}

func ToField(s string) (Field, error) {
	field := Field(s)
	if _, ok := validators[field]; ok {
		return field, nil
	}

	// accept case-insensitive names from the shell, e.g. "cardnumber"
	for f := range validators {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}

	return "", errors.New("invalid field")
}

func (f Field) Label() string {
	return validators[f].label
}

// Validate checks a single value. It does not look at touched state.
func Validate(field Field, value string) error {
	v, ok := validators[field]
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	if !v.valid(value) {
		return fmt.Errorf("%s is invalid: %s", v.label, v.hint)
	}
	return nil
}

// Form holds the payment form values. A field reports an error only after it
// was touched, but Valid always checks every field.
type Form struct {
	mu      sync.Mutex
	values  map[Field]string
	touched map[Field]bool
}

func NewForm() *Form {
	return &Form{
		values:  make(map[Field]string, len(validators)),
		touched: make(map[Field]bool, len(validators)),
	}
}

// Set stores the value and marks the field touched.
func (f *Form) Set(field Field, value string) error {
	if _, ok := validators[field]; !ok {
		return fmt.Errorf("unknown field %q", field)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.values[field] = value
	f.touched[field] = true
	return nil
}

func (f *Form) Value(field Field) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.values[field]
}

func (f *Form) Touched(field Field) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.touched[field]
}

// FieldError returns the validation error of a touched field, nil otherwise.
func (f *Form) FieldError(field Field) error {
	f.mu.Lock()
	value, touched := f.values[field], f.touched[field]
	f.mu.Unlock()

	if !touched {
		return nil
	}
	return Validate(field, value)
}

func (f *Form) Valid() bool {
	return len(f.Invalid()) == 0
}

// Invalid lists every field failing validation, touched or not.
func (f *Form) Invalid() []Field {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Field
	for _, field := range Fields() {
		if !validators[field].valid(f.values[field]) {
			out = append(out, field)
		}
	}
	return out
}

func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	clear(f.values)
	clear(f.touched)
}
