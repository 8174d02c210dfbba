//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/e-kling/PubMedTopicModeler/internal/str"
	"github.com/e-kling/PubMedTopicModeler/internal/vv"
	"github.com/jackc/pgx/v5"
)

var dba = Msg

// AbstractDBInit - initialize vv.ABSTRACTTABLENAME
func AbstractDBInit() {
	const (
		CREATE = `
			CREATE TABLE %s
			(
			  pmid      character varying(16) PRIMARY KEY,
			  title     text,
			  abstract  text,
			  journal   text,
			  pubyear   int,
			  headings  text[]
			)`
		EXISTS = "already exists"
	)
	ex := fmt.Sprintf(CREATE, vv.ABSTRACTTABLENAME)
	_, err := SQLPool.Exec(context.Background(), ex)
	if err != nil {
		m := err.Error()
		if !strings.Contains(m, EXISTS) {
			dba.EC(err)
		}
	} else {
		Msg.FYI("AbstractDBInit(): success")
	}
}

// StoreAbstracts - upsert a batch of fetched abstracts
func StoreAbstracts(abstracts []str.DbAbstract) {
	const (
		INS = `
			INSERT INTO %s
				(pmid, title, abstract, journal, pubyear, headings)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (pmid) DO UPDATE SET
				title = EXCLUDED.title, abstract = EXCLUDED.abstract,
				journal = EXCLUDED.journal, pubyear = EXCLUDED.pubyear,
				headings = EXCLUDED.headings`
		MSG1 = "StoreAbstracts() wrote %d abstracts to '%s'"
	)

	AbstractDBInit()

	dbconn := GetDBConnection()
	defer dbconn.Release()

	ex := fmt.Sprintf(INS, vv.ABSTRACTTABLENAME)
	for i := range abstracts {
		a := abstracts[i]
		_, err := dbconn.Exec(context.Background(), ex,
			a.PMID, a.Title, a.Abstract, a.Journal, a.Year, a.Headings)
		dba.EC(err)
	}
	Msg.PEEK(fmt.Sprintf(MSG1, len(abstracts), vv.ABSTRACTTABLENAME))
}

// LoadAbstracts - all stored abstracts, pmid order
func LoadAbstracts() []str.DbAbstract {
	const (
		Q = `SELECT pmid, title, abstract, journal, pubyear, headings FROM %s ORDER BY pmid`
	)

	dbconn := GetDBConnection()
	defer dbconn.Release()

	foundrows, err := dbconn.Query(context.Background(), fmt.Sprintf(Q, vv.ABSTRACTTABLENAME))
	dba.EC(err)

	all, err := pgx.CollectRows(foundrows, func(row pgx.CollectableRow) (str.DbAbstract, error) {
		var a str.DbAbstract
		e := row.Scan(&a.PMID, &a.Title, &a.Abstract, &a.Journal, &a.Year, &a.Headings)
		return a, e
	})
	dba.EC(err)

	return all
}

// AbstractDBCount - how many abstracts are stored?
func AbstractDBCount(priority int) int64 {
	const (
		SZQ  = "SELECT COUNT(pmid) AS total FROM " + vv.ABSTRACTTABLENAME
		MSG4 = "Number of stored abstracts: %d"
		DNE  = "does not exist"
	)
	var size int64

	err := SQLPool.QueryRow(context.Background(), SZQ).Scan(&size)
	if err != nil {
		m := err.Error()
		if strings.Contains(m, DNE) {
			AbstractDBInit()
		}
		size = 0
	}
	Msg.Emit(fmt.Sprintf(MSG4, size), priority)
	return size
}
