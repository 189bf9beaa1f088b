package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tincho2002/RRHH-sub000/internal/config"
	"github.com/Tincho2002/RRHH-sub000/internal/server"
	"github.com/Tincho2002/RRHH-sub000/internal/util"
)

var (
	port    = flag.Int("port", 0, "puerto de escucha (config.toml tiene prioridad si declara port)")
	devMode = flag.Bool("dev", false, "modo desarrollo")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  RRHH - Tablero de Recursos Humanos")
	fmt.Println("==========================================")

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("no se pudo cargar la configuración, se usan valores por defecto: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}

	srv := server.NewServer(cfg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	go func() {
		fmt.Printf("servicio iniciando en el puerto %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("no se pudo iniciar el servicio: %v", err)
		}
	}()

	if !cfg.Server.DevMode {
		fmt.Printf("abriendo el navegador: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("no se pudo abrir el navegador, acceda manualmente: %s\n", url)
		}
	} else {
		fmt.Printf("modo desarrollo: acceda a %s\n", url)
	}

	fmt.Println("\npresione Ctrl+C para detener el servicio...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\ncerrando el servicio...")
}
