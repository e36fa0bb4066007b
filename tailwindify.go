// Package tailwindify rewrites atomic CSS utility classes in front-end sources
// into Tailwind-style class names.
//
// Tokens are matched with regular expressions on raw text, so a token inside a
// string literal or a comment is rewritten like one inside a class attribute.
//
// # Rules
//
// Rules run in a fixed order, each as a replace-all pass over the output of
// the previous one:
//
//   - mt4 → mt-4, pl12r → <prefix>pl-12r<suffix>
//   - fs14 → text-14
//   - font-weight-700 → font-700
//   - lh20p → leading-20%
//   - br8p → rounded-8%
//   - opacity-50 → <prefix>opacity-50<suffix>
//   - c1a2b3c → text-#1a2b3c
//   - grid-template-columns-3 → <prefix>grid-template-columns-3<suffix>
//
// Rewrites without a safe equivalent are wrapped in the configured markers
// so they can be found and fixed by hand.
//
// # Running
//
//	result, err := tailwindify.Run(ctx, tailwindify.Config{
//		Root:    "src",
//		Markers: tailwindify.DefaultMarkers(),
//	})
//
// Files are split into contiguous groups, one goroutine per group. Changed
// files are written through a temp file and a rename, so a failed write never
// leaves a half-written source file behind.
package tailwindify
