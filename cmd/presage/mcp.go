package main

import (
	"context"

	"github.com/mkoster/presage/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes presage's risk
assessment as tools that LLMs can invoke. This lets AI assistants score
the deployment risk of a change-set or a window of git history.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "presage": {
        "command": "presage",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - assess_deploy_risk  Score the HEAD change-set of a repository
  - assess_history      Score every commit in a period and trend the results`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	server := mcpserver.NewServer(version)
	return server.Run(context.Background())
}
