package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path"
	"strings"
	"time"

	"code.dogecoin.org/gossip/dnet"
	"code.dogecoin.org/governor"

	"code.dogecoin.org/peerwire/internal/collector"
	core "code.dogecoin.org/peerwire/internal/core"
	"code.dogecoin.org/peerwire/internal/store"
	"code.dogecoin.org/peerwire/internal/web"
)

const WebAPIDefaultPort = 8091
const DBFile = "peerwire.db"
const DefaultStorage = "./storage"
const DefaultNetwork = "main"

func main() {
	conf := DefaultConfig()
	var binds []dnet.Address
	var node dnet.Address
	flag.Func("config", "<file.yaml> - load settings from a YAML file (flags given later override it)", func(arg string) error {
		return conf.Load(arg)
	})
	flag.Func("dir", "<path> - storage directory (default './storage')", func(arg string) error {
		ent, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("--dir: %v", err)
		}
		if !ent.IsDir() {
			return fmt.Errorf("--dir: not a directory: %v", arg)
		}
		conf.Dir = arg
		return nil
	})
	flag.StringVar(&conf.DB, "db", conf.DB, "path to SQLite database (relative: in storage dir)")
	flag.Func("network", "main, testnet, regtest or dogecoin", func(arg string) error {
		if _, ok := core.Networks[arg]; !ok {
			return fmt.Errorf("--network: unknown network: %v", arg)
		}
		conf.Network = arg
		return nil
	})
	flag.IntVar(&conf.Crawl, "crawl", conf.Crawl, "number of peer crawlers")
	flag.Func("maxtime", "time limit per peer, e.g. 5m", func(arg string) error {
		d, err := time.ParseDuration(arg)
		if err != nil {
			return fmt.Errorf("--maxtime: %v", err)
		}
		conf.MaxTime = Duration(d)
		return nil
	})
	flag.Func("bind", "Bind web API <ip>:<port> (use [<ip>]:<port> for IPv6)", func(arg string) error {
		addr, err := parseIPPort(arg, "bind", WebAPIDefaultPort)
		if err != nil {
			return err
		}
		binds = append(binds, addr)
		return nil
	})
	flag.StringVar(&conf.Node, "node", "", "<ip>:<port> - stay connected to this node (use [<ip>]:<port> for IPv6)")
	flag.Parse()
	if err := conf.Validate(); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
	if flag.NArg() > 0 {
		log.Printf("Unexpected argument: %v", flag.Arg(0))
		os.Exit(1)
	}

	network := core.Networks[conf.Network]
	for _, b := range conf.Bind {
		addr, err := parseIPPort(b, "bind", WebAPIDefaultPort)
		if err != nil {
			log.Printf("config: %v", err)
			os.Exit(1)
		}
		binds = append(binds, addr)
	}
	if len(binds) < 1 {
		binds = append(binds, dnet.Address{
			Host: net.IP([]byte{0, 0, 0, 0}),
			Port: WebAPIDefaultPort,
		})
	}
	if conf.Node != "" {
		addr, err := parseIPPort(conf.Node, "node", network.Port)
		if err != nil {
			log.Printf("%v", err)
			os.Exit(1)
		}
		node = addr
	}

	// open database.
	dbpath := conf.DB
	if !path.IsAbs(dbpath) {
		dbpath = path.Join(conf.Dir, dbpath)
	}
	db, err := store.NewSQLiteStore(dbpath, context.Background())
	if err != nil {
		log.Printf("Error opening database: %v [%s]\n", err, dbpath)
		os.Exit(1)
	}

	gov := governor.New().CatchSignals().Restart(1 * time.Second)

	// stay connected to a known node if specified.
	if node.IsValid() {
		gov.Add("local-node", collector.New(db, network, node, 60*time.Second, true))
	}

	// start crawling peers.
	for n := 0; n < conf.Crawl; n++ {
		gov.Add(fmt.Sprintf("crawler-%d", n), collector.New(db, network, dnet.Address{}, time.Duration(conf.MaxTime), false))
	}

	// start the web server.
	for _, to := range binds {
		gov.Add("web-api", web.New(to, db))
	}

	// start the store trimmer
	gov.Add("store", store.NewStoreTrimmer(db, time.Duration(conf.TrimEvery)))

	// run services until interrupted.
	gov.Start()
	gov.WaitForShutdown()
	fmt.Println("finished.")
}

// Parse an IPv4 or IPv6 address with optional port.
func parseIPPort(arg string, name string, defaultPort uint16) (dnet.Address, error) {
	// net.SplitHostPort doesn't return a specific error code,
	// so we need to detect if the port it present manually.
	colon := strings.LastIndex(arg, ":")
	bracket := strings.LastIndex(arg, "]")
	if colon == -1 || (arg[0] == '[' && bracket != -1 && colon < bracket) {
		ip := net.ParseIP(strings.Trim(arg, "[]"))
		if ip == nil {
			return dnet.Address{}, fmt.Errorf("bad --%v: invalid IP address: %v (use [<ip>]:port for IPv6)", name, arg)
		}
		return dnet.Address{
			Host: ip,
			Port: defaultPort,
		}, nil
	}
	res, err := dnet.ParseAddress(arg)
	if err != nil {
		return dnet.Address{}, fmt.Errorf("bad --%v: invalid IP address: %v (use [<ip>]:port for IPv6)", name, arg)
	}
	return res, nil
}
