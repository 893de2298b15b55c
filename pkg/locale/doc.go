// Package locale negotiates a locale from the Accept-Language header for
// requests whose route did not select one.
//
//	n, err := locale.New("en", "de", "pl")
//	if err != nil {
//		return err
//	}
//	mw := routing.Middleware(router, routing.WithLocaleFallback(n.FromRequest))
package locale
