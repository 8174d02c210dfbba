//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vv

import (
	"os"
	"time"
)

const (
	MYNAME    = "PubMedTopicModeler"
	SHORTNAME = "PTM"
	VERSION   = "0.4.1"
	PROJURL   = "https://github.com/e-kling/PubMedTopicModeler"

	// configuration files

	CONFIGLOCATION = "."
	CONFIGALTAPTH  = "%s/.config/"
	CONFIGBASIC    = "ptm-pg.json"
	CONFIGPROLIX   = "ptm-conf.json"

	WRITEPERMS = os.FileMode(0644)

	// postgres

	DEFAULTPSQLHOST = "127.0.0.1"
	DEFAULTPSQLUSER = "ptm_rw"
	DEFAULTPSQLPORT = 5432
	DEFAULTPSQLDB   = "pubmedDB"

	ABSTRACTTABLENAME = "pubmed_abstracts"
	TOPICCACHETABLE   = "topicmodelcache"

	// NCBI E-utilities; see https://www.ncbi.nlm.nih.gov/books/NBK25497/

	EUTILSBASE      = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	EUTILSDB        = "pubmed"
	EFETCHBATCHSIZE = 200
	EUTILSPERSECOND = 3 // NCBI's posted limit for keyless clients
	EUTILSTIMEOUT   = 60 * time.Second
	DEFAULTRETMAX   = 500

	// text preparation

	MINTOKENLENGTH = 3

	// topic modeling defaults

	LDAALPHAFACTOR    = 50.0 // alpha = LDAALPHAFACTOR / k
	LDABETA           = 0.1
	LDAITERATIONS     = 500
	LDABURNIN         = 100
	LDASAMPLEINTERVAL = 50
	LDADEFAULTSEED    = 42
	CANDIDATEFLOOR    = 2
	CANDIDATECEILING  = 100
	TOPTERMSPERTOPIC  = 8
	TOPMESHHEADINGS   = 15

	// the server

	SERVEDFROMHOST           = "127.0.0.1"
	SERVEDFROMPORT           = 8000
	MAXECHOREQPERSECONDPERIP = 60
	TIMEOUTRD                = 15 * time.Second
	TIMEOUTWR                = 300 * time.Second

	// terminal

	DEFAULTLOGLEVEL     = 2
	DEFAULTECHOLOGLEVEL = 0
	BLACKANDWHITE       = false

	// charts

	DEFAULTCHRTWIDTH  = "1200px"
	DEFAULTCHRTHEIGHT = "900px"
	CHARTDIR          = "./ptm-reports"

	// sweep time budget; 0 means unbounded

	DEFAULTTIMEBUDGET = 0 * time.Second

	MINCONFIG = `
{"PostgreSQLPassword": "YOURPASSWORDHERE"}
`

	HELPTEXTTEMPLATE = `command line options:
   -bw     black and white console output
   -cd     chart output directory. Default: "{{.chartdir}}"
   -el     echo server log level (0-3). Default: {{.echoll}}
   -gl     console log level (0-5). Default: {{.ptmll}}
   -gz     gzip compression of the server responses
   -h      print this help information
   -pc     cpu profile
   -pm     memory profile
   -pg     supply full postgres credentials as json:
              e.g. {{.pgtempl}}
   -q      run the pipeline once for a pubmed query, then exit
              e.g. -q "leukemia[mh] AND 2019[dp]"
   -rm     retmax: maximum number of abstracts to fetch. Default: {{.retmax}}
   -rs     drop and reinitialize the model score cache
   -sa     server address. Default: "{{.host}}"
   -sp     server port. Default: {{.port}}
   -sd     random seed for model fitting. Default: {{.seed}}
   -tb     time budget for the candidate sweep, e.g. "15m". Default: unbounded
   -v      print version and exit
   -wc     workers for the candidate sweep. Default: {{.workers}} [NumCPU]
   -ws     start the web server instead of a one-shot run
   project: {{.projurl}}
`
)
