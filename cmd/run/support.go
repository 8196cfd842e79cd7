package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/zintix-labs/measurelab/demo"
	"github.com/zintix-labs/measurelab/server"
	"github.com/zintix-labs/measurelab/setting"
	"github.com/zintix-labs/measurelab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	name      string
	id        setting.MID
	worker    int
	lo        float64
	hi        float64
	points    int
	output    string
	serve     bool
	pprofmode string
}

type midFlag struct{ p *setting.MID }

func (f midFlag) String() string { return fmt.Sprint(uint(*f.p)) }
func (f midFlag) Set(s string) error {
	u, err := strconv.ParseUint(s, 10, 0)
	if err != nil {
		return err
	}
	*f.p = setting.MID(uint(u))
	return nil
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.Var(midFlag{&cfg.id}, "measure", "target measure id")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.Float64Var(&cfg.lo, "lo", -1, "grid lower bound")
	flag.Float64Var(&cfg.hi, "hi", 1, "grid upper bound")
	flag.IntVar(&cfg.points, "n", 10000000, "number of grid points")
	flag.StringVar(&cfg.output, "o", "table", "output format: table|json|yaml")
	flag.BoolVar(&cfg.serve, "serve", false, "serve the demo catalog over HTTP instead of tabulating")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()
}

// 這裡解析並分支要執行的列表器
func executeTabulator() {
	if cfg.serve {
		sCfg, err := demo.NewServerConfig()
		if err != nil {
			log.Fatal(err)
		}
		server.Run(sCfg)
		return
	}
	cfg.valid() // 基本檢查

	lab, err := demo.NewMeasurelab()
	if err != nil {
		log.Fatal(err)
	}
	tab, err := lab.NewTabulator(cfg.id)
	if err != nil {
		log.Fatal(err)
	}
	ent, _ := lab.EntryById(cfg.id)
	cfg.name = ent.Name
	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)

	var st *stats.TabReport
	var used time.Duration
	if cfg.worker == 1 { // 單線程
		p.Printf("%s[MEASURE:%s] [GRID:%g..%g] [POINTS:%d]%s\n", green, cfg.name, cfg.lo, cfg.hi, cfg.points, reset)
		st, used, err = tab.Tab(cfg.lo, cfg.hi, cfg.points, true)
	} else {
		p.Printf("%s[WORKERS:%d] [MEASURE:%s] [GRID:%g..%g] [POINTS:%d]%s\n", green, cfg.worker, cfg.name, cfg.lo, cfg.hi, cfg.points, reset)
		st, used, err = tab.TabMP(cfg.lo, cfg.hi, cfg.points, cfg.worker, true) // 併發
	}
	if err != nil {
		log.Fatal(err)
	}

	switch cfg.output {
	case "json":
		if err := st.WriteWith(os.Stdout, &stats.JsonTabReportRender{}); err != nil {
			log.Fatal(err)
		}
	case "yaml":
		if err := st.WriteWith(os.Stdout, &stats.YAMLTabReportRender{}); err != nil {
			log.Fatal(err)
		}
	default:
		st.StdOut(used)
	}
}

func (cfg *config) valid() {
	p := message.NewPrinter(language.English)

	// 工作協程檢查(併發數)
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}

	// 輸出格式檢查
	switch cfg.output {
	case "table", "json", "yaml":
	default:
		log.Fatal("value err : output must be table, json or yaml")
	}

	// 網格檢查
	if cfg.lo > cfg.hi {
		log.Fatal("value err : lo must not exceed hi")
	}
	if cfg.points < 1 {
		log.Fatal("value err : n must > 0")
	}

	// 太大的網格 resize 避免吃光記憶體
	if cfg.points > 100_000_000 {
		p.Printf("too many grid points: %d resized to 100M points\n", cfg.points)
		cfg.points = 100_000_000
	}
}
