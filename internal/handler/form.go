package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/models"
	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/whatsapp"
)

const (
	formTypeGuest   = "guest_form"
	formTypeClosure = "closs_form"
)

// User facing messages.
const (
	msgGuestAdded     = "✅ تم إضافة الضيف بنجاح!"
	msgPhrasesSaved   = "✅ تم حفظ العبارات المخصصة بنجاح!"
	msgNameRequired   = "⚠️ الرجاء إدخال اسم الضيف!"
	msgGroupSize      = "⚠️ عدد أفراد المجموعة يجب أن يكون 1 على الأقل!"
	msgInvalidPhone   = "⚠️ رقم الجوال غير صالح!"
	msgInvalidInput   = "⚠️ البيانات المدخلة غير صالحة!"
	msgGreetingSent   = "✅ تم إرسال الترحيب إلى %s"
	msgNoPhone        = "⚠️ لا يوجد رقم جوال لهذا الضيف!"
	msgGuestMissing   = "⚠️ الضيف غير موجود!"
	msgNotOnWhatsApp  = "❌ الرقم غير مسجل في واتساب!"
	msgGreetingFailed = "❌ تعذر إرسال الترحيب، حاول مرة أخرى."
)

// ValidationError is a user input problem reported inline on the page.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var fieldMessages = map[string]string{
	"Name":      msgNameRequired,
	"GroupSize": msgGroupSize,
	"Phone":     msgInvalidPhone,
}

// decodeGuestForm reads the add-guest form. The closeness value follows the
// default category policy; the group size only counts for group guests.
func decodeGuestForm(r *http.Request) (models.NewGuestRequest, error) {
	req := models.NewGuestRequest{
		Name:       strings.TrimSpace(r.PostFormValue("name")),
		IsGroup:    models.ParseFlag(r.PostFormValue("is_group")),
		GroupSize:  1,
		CategoryID: models.ResolveCategory(r.PostFormValue("closeness")),
	}
	if req.IsGroup {
		req.GroupSize = models.ParseGroupSize(r.PostFormValue("group_size"))
	}
	if phone := strings.TrimSpace(r.PostFormValue("phone")); phone != "" {
		req.Phone = whatsapp.NormalizePhoneNumber(phone)
	}

	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			field := fieldErrs[0].Field()
			msg, ok := fieldMessages[field]
			if !ok {
				msg = msgInvalidInput
			}
			return req, &ValidationError{Field: field, Message: msg}
		}
		return req, fmt.Errorf("failed to validate guest: %w", err)
	}
	return req, nil
}

// decodePhraseForm collects the phrase per category. A typed phrase wins over
// the selected preset; categories with neither are absent from the result.
func decodePhraseForm(r *http.Request) map[int]string {
	phrases := make(map[int]string, models.CategoryCount)
	for id := 1; id <= models.CategoryCount; id++ {
		phrase := strings.TrimSpace(r.PostFormValue(fmt.Sprintf("clos%d_input", id)))
		if phrase == "" {
			phrase = strings.TrimSpace(r.PostFormValue(fmt.Sprintf("clos%d_select", id)))
		}
		if phrase != "" {
			phrases[id] = phrase
		}
	}
	return phrases
}
