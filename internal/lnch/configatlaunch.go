//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"text/template"
	"time"

	"github.com/e-kling/PubMedTopicModeler/internal/mm"
	"github.com/e-kling/PubMedTopicModeler/internal/str"
	"github.com/e-kling/PubMedTopicModeler/internal/vv"
)

var (
	Config *str.CurrentConfiguration
	Msg    = NewMessageMakerWithDefaults()
)

// NewMessageMakerWithDefaults - every package gets its own messenger; they all share the launch info
func NewMessageMakerWithDefaults() *mm.MessageMaker {
	return mm.NewMessageMaker(mm.LaunchStruct{
		Name:       vv.MYNAME,
		Version:    vv.VERSION,
		Shortname:  vv.SHORTNAME,
		LaunchTime: time.Now(),
	}, vv.DEFAULTLOGLEVEL)
}

// LookForConfigFile - test to see if we can find a config file; if not, write a template and exit
func LookForConfigFile() {
	const (
		WROTE = "No configuration found. A template was written to '%s'. Add the postgres password and relaunch."
	)

	_, a := os.Stat(vv.CONFIGBASIC)

	h, e := os.UserHomeDir()
	var b error
	var c error
	if e != nil {
		// how likely is this...?
		b = e
		c = e
	} else {
		_, b = os.Stat(fmt.Sprintf(vv.CONFIGALTAPTH, h) + vv.CONFIGBASIC)
		_, c = os.Stat(fmt.Sprintf(vv.CONFIGALTAPTH, h) + vv.CONFIGPROLIX)
	}

	notfound := (a != nil) && (b != nil) && (c != nil)

	if notfound {
		err := os.WriteFile(vv.CONFIGBASIC, []byte(vv.MINCONFIG), vv.WRITEPERMS)
		Msg.EC(err)
		Msg.MAND(fmt.Sprintf(WROTE, vv.CONFIGBASIC))
		Msg.ExitOrHang(0)
	}
}

// ConfigAtLaunch - read the configuration values from JSON and/or command line
func ConfigAtLaunch() {
	const (
		FAIL1 = "Could not parse your information as a valid collection of credentials. Use the following template:"
		FAIL2 = `"{\"Pass\": \"YOURPASSWORDHERE\" ,\"Host\": \"127.0.0.1\", \"Port\": 5432, \"DBName\": \"pubmedDB\" ,\"User\": \"ptm_rw\"}"`
		FAIL3 = `Could not parse the information in '%s'. Skipping and attempting to use built-in defaults instead.`
		FAIL5 = "Refusing to set a workercount greater than NumCPU: %d > %d ---> setting workercount value to NumCPU: %d"
		FAIL7 = "ConfigAtLaunch() failed to execute help text template"
		FAIL8 = "Could not parse '%s' as a duration"
	)

	Config = BuildDefaultConfig()

	uh, _ := os.UserHomeDir()
	h := fmt.Sprintf(vv.CONFIGALTAPTH, uh)
	prolixcfg := fmt.Sprintf("%s%s", h, vv.CONFIGPROLIX)

	loadedcfg, e := os.Open(prolixcfg)
	if e == nil {
		decoderc := json.NewDecoder(loadedcfg)
		confc := str.CurrentConfiguration{}
		errc := decoderc.Decode(&confc)
		_ = loadedcfg.Close()
		if errc == nil {
			Config = &confc
		} else {
			Msg.CRIT(fmt.Sprintf(FAIL3, prolixcfg))
		}
	}

	// a hand-edited CONFIGPROLIX might zero values that must not be zero

	if Config.RetMax == 0 {
		Config.RetMax = vv.DEFAULTRETMAX
	}

	if len(Config.Sweep.Candidates) == 0 {
		Config.Sweep = BuildDefaultConfig().Sweep
	}

	args := os.Args[1:len(os.Args)]

	help := func() {
		m := map[string]interface{}{
			"chartdir": Config.ChartDir,
			"echoll":   Config.EchoLog,
			"ptmll":    Config.LogLevel,
			"pgtempl":  FAIL2,
			"retmax":   Config.RetMax,
			"host":     Config.HostIP,
			"port":     Config.HostPort,
			"seed":     Config.Seed,
			"workers":  Config.WorkerCount,
			"projurl":  vv.PROJURL,
		}

		t := template.Must(template.New("").Parse(vv.HELPTEXTTEMPLATE))

		var b bytes.Buffer
		if ee := t.Execute(&b, m); ee != nil {
			Msg.CRIT(FAIL7)
		}
		fmt.Println(b.String())
		os.Exit(0)
	}

	for i, a := range args {
		switch a {
		case "-v":
			fmt.Println(vv.VERSION)
			os.Exit(1)
		case "-bw":
			Config.BlackAndWhite = true
		case "-cd":
			Config.ChartDir = args[i+1]
		case "-el":
			ll, err := strconv.Atoi(args[i+1])
			Msg.EC(err)
			Config.EchoLog = ll
		case "-gl":
			ll, err := strconv.Atoi(args[i+1])
			Msg.EC(err)
			Config.LogLevel = ll
		case "-gz":
			Config.Gzip = true
		case "-h":
			help()
		case "-pc":
			Config.ProfileCPU = true
		case "-pg":
			js := args[i+1]
			var pl str.PostgresLogin
			err := json.Unmarshal([]byte(js), &pl)
			if err != nil {
				Msg.MAND(FAIL1)
				Msg.CRIT(FAIL2)
			}
			Config.PGLogin = pl
		case "-pm":
			Config.ProfileMEM = true
		case "-q":
			Config.PubMedQuery = args[i+1]
		case "-rm":
			rm, err := strconv.Atoi(args[i+1])
			Msg.EC(err)
			Config.RetMax = rm
		case "-rs":
			Config.ResetCache = true
		case "-sa":
			Config.HostIP = args[i+1]
		case "-sp":
			p, err := strconv.Atoi(args[i+1])
			Msg.EC(err)
			Config.HostPort = p
		case "-sd":
			sd, err := strconv.ParseUint(args[i+1], 10, 64)
			Msg.EC(err)
			Config.Seed = sd
		case "-tb":
			d, err := time.ParseDuration(args[i+1])
			if err != nil {
				Msg.CRIT(fmt.Sprintf(FAIL8, args[i+1]))
			} else {
				Config.TimeBudget = d
			}
		case "-wc":
			wc, err := strconv.Atoi(args[i+1])
			Msg.EC(err)
			Config.WorkerCount = wc
		case "-ws":
			Config.WebUI = true
		default:
			// do nothing
		}
	}

	SetConfigPass(Config)

	if Config.WorkerCount > runtime.NumCPU() {
		Msg.CRIT(fmt.Sprintf(FAIL5, Config.WorkerCount, runtime.NumCPU(), runtime.NumCPU()))
		Config.WorkerCount = runtime.NumCPU()
	}

	Msg.SetLogLevel(Config.LogLevel)
	Msg.SetBW(Config.BlackAndWhite)
}

// BuildDefaultConfig - return a CurrentConfiguration filled out with various default values
func BuildDefaultConfig() *str.CurrentConfiguration {
	var c str.CurrentConfiguration
	c.BlackAndWhite = vv.BLACKANDWHITE
	c.ChartDir = vv.CHARTDIR
	c.ChartHeight = vv.DEFAULTCHRTHEIGHT
	c.ChartWidth = vv.DEFAULTCHRTWIDTH
	c.EchoLog = vv.DEFAULTECHOLOGLEVEL
	c.Gzip = false
	c.HostIP = vv.SERVEDFROMHOST
	c.HostPort = vv.SERVEDFROMPORT
	c.LogLevel = vv.DEFAULTLOGLEVEL
	c.ProfileCPU = false
	c.ProfileMEM = false
	c.QuietStart = false
	c.ResetCache = false
	c.RetMax = vv.DEFAULTRETMAX
	c.Seed = vv.LDADEFAULTSEED
	c.TimeBudget = vv.DEFAULTTIMEBUDGET
	c.WebUI = false
	c.WorkerCount = runtime.NumCPU()

	cc := make([]int, 0, vv.CANDIDATECEILING-vv.CANDIDATEFLOOR+1)
	for k := vv.CANDIDATEFLOOR; k <= vv.CANDIDATECEILING; k++ {
		cc = append(cc, k)
	}
	c.Sweep = str.SweepConfig{
		Candidates:     cc,
		BurnIn:         vv.LDABURNIN,
		Iterations:     vv.LDAITERATIONS,
		SampleInterval: vv.LDASAMPLEINTERVAL,
	}

	c.PGLogin = str.PostgresLogin{
		Host:   vv.DEFAULTPSQLHOST,
		Port:   vv.DEFAULTPSQLPORT,
		User:   vv.DEFAULTPSQLUSER,
		Pass:   "",
		DBName: vv.DEFAULTPSQLDB,
	}

	return &c
}

// SetConfigPass - make sure that Config.PGLogin.Pass != ""
func SetConfigPass(cfg *str.CurrentConfiguration) {
	const (
		FAIL3     = "FAILED to load database credentials from any of '%s', '%s' or '%s'"
		FAIL4     = "At a minimum be sure that a 'ptm-pg.json' file exists and that it has the following format:"
		BLANKPASS = "PostgreSQLPassword is blank. Check your 'ptm-pg.json' file.\n"
	)

	type ConfigFile struct {
		PostgreSQLPassword string
	}

	if cfg.PGLogin.Pass != "" {
		return
	}

	uh, _ := os.UserHomeDir()
	h := fmt.Sprintf(vv.CONFIGALTAPTH, uh)

	cf := fmt.Sprintf("%s/%s", vv.CONFIGLOCATION, vv.CONFIGBASIC)
	acf := fmt.Sprintf("%s%s", h, vv.CONFIGBASIC)

	read := func(path string) (ConfigFile, error) {
		fh, e := os.Open(path)
		if e != nil {
			return ConfigFile{}, e
		}
		defer func() { _ = fh.Close() }()
		decoder := json.NewDecoder(fh)
		conf := ConfigFile{}
		e = decoder.Decode(&conf)
		return conf, e
	}

	confa, erra := read(cf)
	confb, errb := read(acf)

	if erra != nil && errb != nil && cfg.PGLogin.DBName == "" {
		Msg.CRIT(fmt.Sprintf(FAIL3, cf, acf, h+vv.CONFIGPROLIX))
		Msg.CRIT(FAIL4)
		fmt.Printf(vv.MINCONFIG)
		Msg.ExitOrHang(0)
	}

	thecfg := confa
	if erra != nil {
		thecfg = confb
	}

	if thecfg.PostgreSQLPassword == "" {
		Msg.MAND(BLANKPASS)
	}

	cfg.PGLogin = str.PostgresLogin{
		Host:   vv.DEFAULTPSQLHOST,
		Port:   vv.DEFAULTPSQLPORT,
		User:   vv.DEFAULTPSQLUSER,
		DBName: vv.DEFAULTPSQLDB,
		Pass:   thecfg.PostgreSQLPassword,
	}
}
