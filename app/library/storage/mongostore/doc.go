// Package mongostore implements library.Repository on MongoDB.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg, cfg.Database)
//	if err != nil {
//		return err
//	}
//	repo := mongostore.New(db)
//
// Books are kept in the books collection with the numeric id as _id, and
// ids are drawn from the counters collection.
package mongostore
