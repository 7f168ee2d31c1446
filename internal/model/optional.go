package model

// Optional returns nil for an empty string so optional columns store NULL.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Value dereferences an optional column, returning "" for NULL.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func setOptional(dst **string, src *string) {
	if src == nil {
		return
	}
	*dst = Optional(*src)
}
