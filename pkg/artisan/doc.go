// Package artisan converts roast.world roast exports into Artisan CSV
// profiles.
//
// Quick start:
//
//	data, _ := os.ReadFile("roast_data.json")
//	csv, err := artisan.Convert(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	name, _ := artisan.Filename(data)
//	os.WriteFile(name, csv, 0o644)
//
// Conversion is pure apart from the header date, which defaults to the
// current day. Pass WithDate for reproducible output. All functions are safe
// for concurrent use.
package artisan
