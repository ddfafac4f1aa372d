// Package csrf manages the per-session anti-forgery token.
//
// The active token lives in the session record's metadata under MetadataKey
// and is submitted back through the FieldName form field. Validation compares
// in constant time and an empty side always fails. A successful validation
// must be followed by rotation (see middleware.Protect), making each token
// single-use: a captured token replayed after the legitimate user's next
// successful submission fails.
//
// Handlers rendering forms call Ensure to lazily initialize the token:
//
//	token, created, err := csrf.Ensure(&rec)
//	if created {
//		rec, err = sessions.Update(w, r, rec.Metadata)
//	}
//	// embed token as <input type="hidden" name="_csrf" value="...">
package csrf
