package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"

	"github.com/nossoguia/guia-compras/internal/domain/store"
)

func (h *Handler) createRegistration(w http.ResponseWriter, r *http.Request) {
	reg, err := decodeRegistration(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := reg.Validate(); err != nil {
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	reg.ID = uuid.New().String()
	reg.CreatedAt = time.Now().UTC()

	if err := h.registrations.Create(r.Context(), reg); err != nil {
		h.internalError(w, r, errors.Wrap(err, "create registration"))
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(reg.ID)
		e.FieldStart("created_at")
		e.Str(reg.CreatedAt.Format(time.RFC3339))
		e.ObjEnd()
	})
}

// writeValidationError lists every rejected field so the client can surface
// them all at once, the way the registration form does.
func writeValidationError(w http.ResponseWriter, verr *store.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(http.StatusUnprocessableEntity)
		e.FieldStart("message")
		e.Str("invalid registration")
		e.FieldStart("fields")
		e.ArrStart()
		for _, f := range verr.Fields {
			e.ObjStart()
			e.FieldStart("field")
			e.Str(f.Field)
			e.FieldStart("reason")
			e.Str(f.Reason)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

func decodeRegistration(r *http.Request) (*store.Registration, error) {
	var reg store.Registration

	str := func(d *jx.Decoder, dst *string) error {
		v, err := d.Str()
		*dst = v
		return err
	}
	boolean := func(d *jx.Decoder, dst *bool) error {
		v, err := d.Bool()
		*dst = v
		return err
	}

	err := decodeObj(r.Body, func(d *jx.Decoder, key string) error {
		switch key {
		case "company_name":
			return str(d, &reg.CompanyName)
		case "trade_name":
			return str(d, &reg.TradeName)
		case "cnpj":
			return str(d, &reg.CNPJ)
		case "ie_exempt":
			return boolean(d, &reg.IEExempt)
		case "ie":
			return str(d, &reg.IE)
		case "segment":
			return str(d, &reg.Segment)
		case "phone":
			return str(d, &reg.Phone)
		case "whatsapp":
			return str(d, &reg.WhatsApp)
		case "email":
			return str(d, &reg.Email)
		case "website":
			return str(d, &reg.Website)
		case "postal_code":
			return str(d, &reg.PostalCode)
		case "street":
			return str(d, &reg.Street)
		case "number":
			return str(d, &reg.Number)
		case "complement":
			return str(d, &reg.Complement)
		case "district":
			return str(d, &reg.District)
		case "city":
			return str(d, &reg.City)
		case "state":
			return str(d, &reg.State)
		case "delivery":
			return boolean(d, &reg.Delivery)
		case "pickup":
			return boolean(d, &reg.Pickup)
		case "accepts_pix":
			return boolean(d, &reg.AcceptsPix)
		case "accepts_debit":
			return boolean(d, &reg.AcceptsDebit)
		case "accepts_credit":
			return boolean(d, &reg.AcceptsCredit)
		case "instagram":
			return str(d, &reg.Instagram)
		case "facebook":
			return str(d, &reg.Facebook)
		case "terms_accepted":
			return boolean(d, &reg.TermsAccepted)
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
