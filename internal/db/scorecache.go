//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package db

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/e-kling/PubMedTopicModeler/internal/sel"
	"github.com/e-kling/PubMedTopicModeler/internal/vv"
	"github.com/jackc/pgx/v5"
)

// a sweep over 99 candidates can run for hours; a finished Report is cached against the md5
// fingerprint of its corpus + settings so the same request never pays twice

var dbc = Msg

// TopicDBInit - initialize vv.TOPICCACHETABLE
func TopicDBInit() {
	const (
		CREATE = `
			CREATE TABLE %s
			(
			  fingerprint character(32),
			  reportsize  int,
			  reportdata  bytea
			)`
		EXISTS = "already exists"
	)
	ex := fmt.Sprintf(CREATE, vv.TOPICCACHETABLE)
	_, err := SQLPool.Exec(context.Background(), ex)
	if err != nil {
		m := err.Error()
		if !strings.Contains(m, EXISTS) {
			dbc.EC(err)
		}
	} else {
		Msg.FYI("TopicDBInit(): success")
	}
}

// TopicDBCheck - has a sweep with this fingerprint already been stored?
func TopicDBCheck(fp string) bool {
	const (
		Q   = `SELECT fingerprint FROM %s WHERE fingerprint = '%s' LIMIT 1`
		F   = `TopicDBCheck() found %s`
		DNE = "does not exist"
	)

	q := fmt.Sprintf(Q, vv.TOPICCACHETABLE, fp)
	foundrow, err := SQLPool.Query(context.Background(), q)
	if err != nil {
		m := err.Error()
		if strings.Contains(m, DNE) {
			TopicDBInit()
		}
		return false
	}

	type simplestring struct {
		S string
	}

	ss, err := pgx.CollectOneRow(foundrow, pgx.RowToStructByPos[simplestring])
	if err != nil {
		// "no rows in result set" means the fingerprint is not there
		return false
	}
	Msg.TMI(fmt.Sprintf(F, ss.S))
	return true
}

// TopicDBAdd - add a finished sweep Report to vv.TOPICCACHETABLE
func TopicDBAdd(fp string, report sel.Report) {
	const (
		MSG1 = "TopicDBAdd(): "
		MSG3 = "TopicDBAdd() was sent a report with no scores"
		FAIL = "TopicDBAdd() failed when calling json.Marshal(report): nothing stored"
		INS  = `
			INSERT INTO %s
				(fingerprint, reportsize, reportdata)
			VALUES ('%s', $1, $2)`
		GZ = gzip.BestSpeed
	)

	if len(report.Scores) == 0 {
		Msg.PEEK(MSG3)
		return
	}

	rb, err := json.Marshal(report)
	if err != nil {
		Msg.NOTE(FAIL)
		rb = []byte{}
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, GZ)
	dbc.EC(err)
	_, err = zw.Write(rb)
	dbc.EC(err)
	err = zw.Close()
	dbc.EC(err)

	b := buf.Bytes()

	ex := fmt.Sprintf(INS, vv.TOPICCACHETABLE, fp)

	_, err = SQLPool.Exec(context.Background(), ex, len(b), b)
	dbc.EC(err)
	Msg.TMI(MSG1 + fp)
	buf.Reset()
}

// TopicDBFetch - get a sweep Report back out of vv.TOPICCACHETABLE
func TopicDBFetch(fp string) sel.Report {
	const (
		MSG2 = "TopicDBFetch() pulled an empty report for %s"
		Q    = `SELECT reportdata FROM %s WHERE fingerprint = '%s' LIMIT 1`
	)

	q := fmt.Sprintf(Q, vv.TOPICCACHETABLE, fp)
	var data []byte
	foundrow, err := SQLPool.Query(context.Background(), q)
	dbc.EC(err)

	defer foundrow.Close()
	for foundrow.Next() {
		err = foundrow.Scan(&data)
		dbc.EC(err)
	}

	var buf bytes.Buffer
	buf.Write(data)

	// the data in the table is zipped and needs unzipping
	zr, err := gzip.NewReader(&buf)
	dbc.EC(err)
	decompr, err := io.ReadAll(zr)
	dbc.EC(err)
	err = zr.Close()
	dbc.EC(err)

	var report sel.Report
	err = json.Unmarshal(decompr, &report)
	dbc.EC(err)
	buf.Reset()

	if len(report.Scores) == 0 {
		Msg.NOTE(fmt.Sprintf(MSG2, fp))
	}

	return report
}

// TopicDBReset - drop vv.TOPICCACHETABLE
func TopicDBReset() {
	const (
		MSG1 = "TopicDBReset() dropped "
		MSG2 = "TopicDBReset(): 'DROP TABLE %s' returned an (ignored) error: \n\t%s"
		E    = `DROP TABLE %s`
	)
	ex := fmt.Sprintf(E, vv.TOPICCACHETABLE)

	_, err := SQLPool.Exec(context.Background(), ex)
	if err != nil {
		ms := err.Error()
		Msg.TMI(fmt.Sprintf(MSG2, vv.TOPICCACHETABLE, ms))
	} else {
		Msg.NOTE(MSG1 + vv.TOPICCACHETABLE)
	}
}

// TopicDBCount - how many sweeps have been cached?
func TopicDBCount(priority int) int64 {
	const (
		SZQ  = "SELECT COUNT(fingerprint) AS total FROM " + vv.TOPICCACHETABLE
		MSG4 = "Number of cached topic count sweeps: %d"
		DNE  = "does not exist"
	)
	var size int64

	err := SQLPool.QueryRow(context.Background(), SZQ).Scan(&size)
	if err != nil {
		m := err.Error()
		if strings.Contains(m, DNE) {
			TopicDBInit()
		}
		size = 0
	}
	Msg.Emit(fmt.Sprintf(MSG4, size), priority)
	return size
}
