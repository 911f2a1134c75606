// Package bizlist embeds the business listing engine in a Go program,
// without the HTTP server.
//
// The client talks to the same stores as the service: Postgres, SQLite,
// Redis with RediSearch, or an in-memory dataset.
//
//	client, _ := bizlist.New(ctx, bizlist.WithSQLite("file:bizlist.db"))
//	defer client.Close()
//
//	rows, _ := client.Businesses().
//	    Category("defi").
//	    HasPhoto().
//	    OrderBy("name", true).
//	    Limit(10).
//	    Do(ctx)
//
//	sample, _ := client.Businesses().Tag("nft").Random().Limit(3).Do(ctx)
package bizlist
