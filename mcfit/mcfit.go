/*

Mcfit selects model complexity for one or multiple experimental
conditions. It fits an increasing-complexity list of candidate models
to every condition, aggregates the costs and stops once additional
complexity brings no improvement.

The basic usage of mcfit looks like this:

	mcfit plaw condition1.dat condition2.dat

, this will sweep power-law models with a default optimizer (LBFGS-B).

You can change a family and an optimizer:

	mcfit -method simplex ctsn condition1.dat

To see all the options run:

	mcfit -h

*/
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	"bitbucket.org/mcfit/mcfit/checkpoint"
	"bitbucket.org/mcfit/mcfit/dataset"
	"bitbucket.org/mcfit/mcfit/fit"
	"bitbucket.org/mcfit/mcfit/mcond"
	"bitbucket.org/mcfit/mcfit/model"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("mcfit")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("mcfit", "multiple-condition model-complexity selection").Version(version)

	// input
	family        = app.Arg("family", "model family (plaw or ctsn)").Required().String()
	dataFileNames = app.Arg("data", "data file, one per condition").Required().ExistingFiles()

	// model parameters
	complexities = app.Flag("complexity", "comma-separated list of model complexities").
			Default("1,2,3,4,5,6,7,8").String()
	indepParams = app.Flag("indep", "independent parameters of a condition, one flag per condition; "+
		"series are separated by ';', values by ','").Strings()
	window     = app.Flag("window", "number of models without improvement before stopping").Default("3").Int()
	cutoff     = app.Flag("cutoff", "goodness-of-fit significance level").Default("0.95").Float64()
	priorSigma = app.Flag("priorsigma", "standard deviation of the parameter prior").Default("10").Float64()
	paramBound = app.Flag("parambound", "bound on absolute parameter values").Default("1e4").Float64()

	// optimizer parameters
	iterations = app.Flag("iter", "number of iterations").Default("10000").Int()
	report     = app.Flag("report", "report every N iterations").Default("10").Int()
	method     = app.Flag("method", "optimization method to use "+
		"(lbfgsb: limited-memory Broyden–Fletcher–Goldfarb–Shanno with bounding constraints, "+
		"simplex: downhill simplex, "+
		"annealing: simullated annealing, "+
		"mh: Metropolis-Hastings, "+
		"mayfly: mayfly metaheuristic, "+
		"none: just compute cost, no optimization"+
		")").Default("lbfgsb").String()
	parallel  = app.Flag("parallel", "fit conditions concurrently within a sweep step").Bool()
	randomize = app.Flag("randomize", "use uniformly distributed random starting point "+
		"for every model instead of extending the previous fit").Bool()
	startF = app.Flag("start", "read the starting point of the first model "+
		"from the last line of a trajectory file").ExistingFile()

	// checkpointing
	checkpointFileName = app.Flag("checkpoint", "save sweep checkpoints to a database file").String()
	saveKey            = app.Flag("savekey", "checkpoint save key").Default("sweep").String()

	// technical
	nThreads   = app.Flag("nt", "number of threads to use").Int()
	seed       = app.Flag("seed", "random generator seed, default time based").Default("-1").Int64()
	cpuProfile = app.Flag("cpuprofile", "write cpu profile to file").String()

	// input/output
	outLogF  = app.Flag("log", "write log to a file").String()
	outF     = app.Flag("out", "write optimization trajectory to a file").String()
	plotF    = app.Flag("plot", "plot fits using the given file-name prefix").String()
	plotBest = app.Flag("plotbest", "plot only the selected model").Bool()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json output to a file").String()
)

// lastLine returns the last line of a file.
func lastLine(fn string) (line string, err error) {
	f, err := os.Open(fn)
	if err != nil {
		return line, err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line = scanner.Text()
	}
	err = scanner.Err()
	return line, err
}

// syncWriter serializes writes from concurrently running
// optimizers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// parseComplexities parses a comma-separated complexity list.
func parseComplexities(s string) ([]int, error) {
	fields := strings.Split(s, ",")
	res := make([]int, 0, len(fields))
	for _, f := range fields {
		c, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("parsing complexity '%s': %v", f, err)
		}
		res = append(res, c)
	}
	return res, nil
}

// parseIndep parses the independent parameters of one condition;
// series are separated by ';', values by ','.
func parseIndep(s string) ([][]float64, error) {
	series := strings.Split(s, ";")
	res := make([][]float64, len(series))
	for i, ser := range series {
		var vals []float64
		for _, f := range strings.Split(ser, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing independent parameter '%s': %v", f, err)
			}
			vals = append(vals, v)
		}
		res[i] = vals
	}
	return res, nil
}

func run() (summary *RunSummary) {
	startTime := time.Now()
	summary = &RunSummary{}

	cs, err := parseComplexities(*complexities)
	if err != nil {
		log.Fatal(err)
	}
	models, err := model.FromString(*family, cs)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Using %s family, %d candidate models", *family, len(models))

	datasets := make([]*dataset.Dataset, len(*dataFileNames))
	for i, fn := range *dataFileNames {
		datasets[i], err = dataset.ReadFile(fn)
		if err != nil {
			log.Fatal(err)
		}
	}

	var indep [][][]float64
	if len(*indepParams) > 0 {
		indep = make([][][]float64, len(*indepParams))
		for i, s := range *indepParams {
			indep[i], err = parseIndep(s)
			if err != nil {
				log.Fatal(err)
			}
		}
	}

	settings := fit.NewSettings()
	settings.Method = *method
	settings.Iterations = *iterations
	settings.ReportPeriod = *report
	settings.Seed = *seed
	settings.PriorSigma = *priorSigma
	settings.ParamBound = *paramBound
	settings.Cutoff = *cutoff
	settings.StopWindow = *window
	settings.Verbose = true
	settings.Randomize = *randomize

	if *startF != "" {
		l, err := lastLine(*startF)
		if err != nil {
			log.Fatal("Error reading start position:", err)
		}
		settings.StartLine = l
	}

	if *outF != "" {
		f, err := os.Create(*outF)
		if err != nil {
			log.Fatal("Error creating trajectory file:", err)
		}
		defer f.Close()
		settings.TrajOutput = f
		if *parallel {
			// concurrent optimizers share the trajectory file
			settings.TrajOutput = &syncWriter{w: f}
		}
	}

	factory := func(data *dataset.Dataset, ind [][]float64) (mcond.Engine, error) {
		return fit.NewProblem(data, models, ind, settings)
	}

	fitter, err := mcond.New(datasets, indep, factory)
	if err != nil {
		log.Fatal(err)
	}
	fitter.SetParallel(*parallel)
	summary.Conditions = fitter.NConditions()

	if *checkpointFileName != "" {
		db, err := checkpoint.Open(*checkpointFileName)
		if err != nil {
			log.Fatal("Error opening checkpoint database:", err)
		}
		defer db.Close()
		fitter.SetCheckpoint(checkpoint.NewSweepIO(db, *saveKey, os.Getpid()))
	}

	log.Infof("Using %s optimization.", *method)

	if err = fitter.FitAll(); err != nil {
		log.Fatal(err)
	}

	for _, name := range fitter.FitOrder() {
		cost, _ := fitter.Cost(name)
		penalty, _ := fitter.Penalty(name)
		logL, _ := fitter.LogLikelihood(name)
		np, _ := fitter.NumParameters(name)
		summary.Models = append(summary.Models, ModelSummary{
			Name:          name,
			NParameters:   np,
			Cost:          cost,
			Penalty:       penalty,
			LogLikelihood: logL,
		})
	}
	summary.Done = fitter.Done()

	best, err := fitter.BestName(0)
	if err != nil {
		log.Error(err)
	} else {
		logL, _ := fitter.LogLikelihood(best)
		log.Noticef("Best model: %s (logL=%g)", best, logL)
		summary.Best = best

		fits, err := fitter.BestModel(best, 0)
		if err != nil {
			log.Error(err)
		} else {
			for _, m := range fits {
				f, ok := m.(*fit.Fitted)
				if !ok {
					continue
				}
				summary.BestFits = append(summary.BestFits, ConditionFit{
					Parameters: f.Parameters,
					Cost:       f.Cost,
					Penalty:    f.Penalty,
					Optimizer:  f.Optimizer,
				})
			}
		}
	}

	if *plotF != "" {
		if *plotBest {
			err = fitter.PlotBestModelResults(*plotF)
		} else {
			err = fitter.PlotResults(*plotF)
		}
		if err != nil {
			log.Error("Error plotting:", err)
		}
	}

	endTime := time.Now()

	deltaT := endTime.Sub(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.Time = deltaT.Seconds()

	return
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	for _, pkg := range []string{"mcfit", "mcond", "fit", "optimize", "checkpoint", "dataset", "figure"} {
		logging.SetLevel(level, pkg)
	}

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if *seed == -1 {
		*seed = time.Now().UnixNano()
		log.Debug("Random seed from time")
	}
	log.Infof("Random seed=%v", *seed)

	rand.Seed(*seed)
	runtime.GOMAXPROCS(*nThreads)

	effectiveNThreads := runtime.GOMAXPROCS(0)
	log.Infof("Using threads: %d.\n", effectiveNThreads)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	summary := run()
	summary.NThreads = effectiveNThreads
	summary.Version = version
	summary.CommandLine = os.Args
	summary.Seed = *seed

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
		} else {
			log.Debug(string(j))
			f, err := os.Create(*jsonF)
			if err != nil {
				log.Error("Error creating json output file:", err)
			} else {
				f.Write(j)
				f.Close()
			}
		}
	}
}
