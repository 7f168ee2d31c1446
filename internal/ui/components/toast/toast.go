package toast

import (
	"context"
	"io"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"github.com/templui/portfolio/internal/model"
)

type Variant string

const (
	VariantDefault Variant = "default"
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantInfo    Variant = "info"
)

type Props struct {
	Title       string
	Description string
	Variant     Variant
	Dismissible bool
	Class       string
}

const baseClass = "pointer-events-auto w-full max-w-sm rounded-lg border bg-background p-4 shadow-lg"

var variantClass = map[Variant]string{
	VariantDefault: "",
	VariantSuccess: "border-green-500",
	VariantError:   "border-destructive bg-destructive text-destructive-foreground",
	VariantInfo:    "border-blue-500",
}

// FromNotification maps a notification variant onto toast props.
func FromNotification(n model.Notification) Props {
	v := Variant(n.Variant)
	if _, ok := variantClass[v]; !ok {
		v = VariantDefault
	}
	return Props{
		Title:       n.Title,
		Description: n.Description,
		Variant:     v,
		Dismissible: true,
	}
}

func Toast(p Props) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		class := twmerge.Merge(baseClass, variantClass[p.Variant], p.Class)

		_, err := io.WriteString(w, `<div role="status" data-toast data-variant="`+templ.EscapeString(string(p.Variant))+`" class="`+templ.EscapeString(class)+`">`)
		if err != nil {
			return err
		}
		if p.Title != "" {
			_, err = io.WriteString(w, `<p class="text-sm font-semibold">`+templ.EscapeString(p.Title)+`</p>`)
			if err != nil {
				return err
			}
		}
		if p.Description != "" {
			_, err = io.WriteString(w, `<p class="text-sm opacity-90">`+templ.EscapeString(p.Description)+`</p>`)
			if err != nil {
				return err
			}
		}
		if p.Dismissible {
			_, err = io.WriteString(w, `<button type="button" data-toast-dismiss aria-label="Close" class="absolute right-2 top-2 text-xs">&times;</button>`)
			if err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</div>`)
		return err
	})
}
