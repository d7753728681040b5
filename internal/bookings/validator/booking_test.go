package validator

import (
	"errors"
	"strings"
	"testing"
	"time"

	"calbook/pkg/logger"
	"calbook/pkg/model"
)

func validInput() *model.BookingInput {
	return &model.BookingInput{
		Title: "Dentist",
		Note:  "Bring insurance card",
		Start: "2026-03-02T09:00:00Z",
		End:   "2026-03-02T10:00:00Z",
	}
}

func TestValidate(t *testing.T) {
	v := NewBookingValidator(logger.Discard(), time.UTC, true)

	tests := []struct {
		name       string
		mutate     func(in *model.BookingInput)
		wantFields []string
	}{
		{
			name:   "valid booking",
			mutate: func(in *model.BookingInput) {},
		},
		{
			name:       "empty title",
			mutate:     func(in *model.BookingInput) { in.Title = "" },
			wantFields: []string{"title"},
		},
		{
			name:       "empty note",
			mutate:     func(in *model.BookingInput) { in.Note = "" },
			wantFields: []string{"note"},
		},
		{
			name: "everything missing",
			mutate: func(in *model.BookingInput) {
				*in = model.BookingInput{}
			},
			wantFields: []string{"title", "note", "start", "end"},
		},
		{
			name:       "malformed start",
			mutate:     func(in *model.BookingInput) { in.Start = "next tuesday" },
			wantFields: []string{"start"},
		},
		{
			name:       "malformed end",
			mutate:     func(in *model.BookingInput) { in.End = "2026-13-45T99:00:00Z" },
			wantFields: []string{"end"},
		},
		{
			name:       "title too long",
			mutate:     func(in *model.BookingInput) { in.Title = strings.Repeat("a", 201) },
			wantFields: []string{"title"},
		},
		{
			name:       "end before start",
			mutate:     func(in *model.BookingInput) { in.End = "2026-03-02T08:00:00Z" },
			wantFields: []string{"end"},
		},
		{
			name: "start before year zero in UTC",
			mutate: func(in *model.BookingInput) {
				in.Start = "0000-01-01T00:00:00+01:00"
				in.End = "0000-01-01T05:00:00+01:00"
			},
			wantFields: []string{"start"},
		},
		{
			name:       "end past year 9999 in UTC",
			mutate:     func(in *model.BookingInput) { in.End = "9999-12-31T23:00:00-02:00" },
			wantFields: []string{"end"},
		},
		{
			name:   "zero length booking",
			mutate: func(in *model.BookingInput) { in.End = in.Start },
		},
		{
			name: "date picker format",
			mutate: func(in *model.BookingInput) {
				in.Start = "2026-03-02 09:00:00"
				in.End = "2026-03-02 09:30:00"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)

			_, err := v.Validate(in)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() error = %v, want ValidationErrors", err)
			}
			got := verrs.Fields()
			if strings.Join(got, ",") != strings.Join(tt.wantFields, ",") {
				t.Errorf("Validate() fields = %v, want %v", got, tt.wantFields)
			}
		})
	}
}

func TestValidate_TimeOrderCanBeDisabled(t *testing.T) {
	v := NewBookingValidator(logger.Discard(), time.UTC, false)

	in := validInput()
	in.End = "2026-03-01T09:00:00Z"

	if _, err := v.Validate(in); err != nil {
		t.Fatalf("Validate() unexpected error = %v", err)
	}
}

func TestValidate_ReturnsParsedRangeInUTC(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	if err != nil {
		t.Skipf("time zone database unavailable: %v", err)
	}
	v := NewBookingValidator(logger.Discard(), loc, true)

	in := validInput()
	in.Start = "2026-03-02T09:00:00"
	in.End = "2026-03-02T10:00:00+02:00"

	got, err := v.Validate(in)
	if err != nil {
		t.Fatalf("Validate() unexpected error = %v", err)
	}

	wantStart := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	if !got.Start.Equal(wantStart) || got.Start.Location() != time.UTC {
		t.Errorf("Start = %v, want %v", got.Start, wantStart)
	}
	if !got.End.Equal(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("End = %v", got.End)
	}
}

func TestValidate_NilInput(t *testing.T) {
	v := NewBookingValidator(logger.Discard(), nil, true)

	_, err := v.Validate(nil)
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Validate(nil) error = %v, want ValidationErrors", err)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "title", Message: "title is required"},
		{Field: "note", Message: "note is required"},
	}
	want := "validation failed: 2 error(s): [title: title is required; note: note is required]"
	if errs.Error() != want {
		t.Errorf("Error() = %q, want %q", errs.Error(), want)
	}
}
