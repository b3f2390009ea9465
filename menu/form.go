package menu

import (
	"errors"
	"slices"
	"sort"
	"strings"

	"resto-pos/api"
	"resto-pos/models"

	"github.com/go-playground/validator/v10"
)

// Form is the add/edit dialog of a menu item
type Form struct {
	Name        string  `validate:"required,min=3"`
	Description string  `validate:"max=500"`
	Price       float64 `validate:"gt=0"`
	Category    string  `validate:"required,menucategory"`
	Image       string  `validate:"omitempty,url"`
	Available   bool
}

// NewForm returns the defaults of the add dialog
func NewForm() Form {
	return Form{Category: "Main Course", Available: true}
}

// FormFor fills the edit dialog from an existing item
func FormFor(item models.MenuItem) Form {
	f := Form{
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Category:    item.Category,
		Image:       item.Image,
		Available:   item.Available,
	}
	if f.Category == "" {
		f.Category = "Main Course"
	}
	return f
}

// FormErrors maps a form field to its message
type FormErrors map[string]string

func (fe FormErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + fe[k]
	}
	return "invalid menu item: " + strings.Join(parts, "; ")
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("menucategory", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.MenuCategories, fl.Field().String())
	})
	return v
}()

var fieldMessages = map[string]string{
	"Name":        "Name is required (min 3 chars)",
	"Description": "Description is too long",
	"Price":       "Price must be greater than 0",
	"Category":    "Choose one of: " + strings.Join(models.MenuCategories, ", "),
	"Image":       "Image must be a URL",
}

// Validate trims the text fields, rounds the price to cents and checks the
// form. It returns FormErrors or nil.
func (f *Form) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Image = strings.TrimSpace(f.Image)
	f.Price = models.RoundCents(f.Price)

	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := FormErrors{}
	for _, fieldErr := range verrs {
		key := strings.ToLower(fieldErr.Field())
		if _, seen := fe[key]; !seen {
			fe[key] = fieldMessages[fieldErr.Field()]
		}
	}
	return fe
}

func (f Form) input() api.FoodInput {
	return api.FoodInput{
		Name:        f.Name,
		Description: f.Description,
		Price:       models.RoundCents(f.Price),
		Category:    f.Category,
		Image:       f.Image,
		Available:   f.Available,
	}
}
