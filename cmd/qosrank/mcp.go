package main

import (
	"fmt"

	"github.com/panbanda/qosrank/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the ranking engine
as tools that LLMs can invoke. Tool calls start from the loaded config.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "qosrank": {
        "command": "qosrank",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - rank_alternatives  WASPAS, VIKOR and Fuzzy TOPSIS ranking of a QoS dataset
  - entropy_weights    Criterion polarities and entropy weights`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the MCP registry server manifest",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	cfg, _, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return mcpserver.NewServer(version, cfg).Run(c.Context)
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(data))
	return nil
}
