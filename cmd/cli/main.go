package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/DeedLedger/property-marketplace/internal/config"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"io"
	"io/ioutil"
	"os"
	"strconv"
)

func main() {
	config.Init("cli")

	app := &cli.App{
		Name:  "marketplace",
		Usage: "administer the property marketplace daemon",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Value: "http://localhost:" + config.Get().ApiPort, Usage: "marketplace api base url"},
		},
		Commands: []*cli.Command{
			{
				Name:      "listing",
				Usage:     "show the listing for an asset",
				ArgsUsage: "<contract> <tokenId>",
				Action:    getListing,
			},
			{
				Name:   "fees",
				Usage:  "show the listing fee and the accumulated fees",
				Action: getFees,
			},
			{
				Name:  "set-fee",
				Usage: "change the listing fee",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "caller", Required: true, Usage: "owner account"},
					&cli.Uint64Flag{Name: "fee", Required: true, Usage: "new listing fee"},
				},
				Action: setListingFee,
			},
			{
				Name:  "withdraw",
				Usage: "withdraw all accumulated fees",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "caller", Required: true, Usage: "owner account"},
					&cli.StringFlag{Name: "destination", Required: true, Usage: "payout account"},
				},
				Action: withdraw,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to execute command")
	}
}

func getListing(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return errors.New("usage: listing <contract> <tokenId>")
	}
	if _, err := strconv.ParseUint(c.Args().Get(1), 10, 64); err != nil {
		return errors.New("tokenId must be an unsigned integer")
	}

	return get(fmt.Sprintf("%s/listings/%s/%s", c.String("api"), c.Args().Get(0), c.Args().Get(1)))
}

func getFees(c *cli.Context) error {
	return get(fmt.Sprintf("%s/fees", c.String("api")))
}

func setListingFee(c *cli.Context) error {
	return send("PUT", fmt.Sprintf("%s/fees/listing", c.String("api")), map[string]interface{}{
		"caller": c.String("caller"),
		"fee":    c.Uint64("fee"),
	})
}

func withdraw(c *cli.Context) error {
	return send("POST", fmt.Sprintf("%s/fees/withdraw", c.String("api")), map[string]interface{}{
		"caller":      c.String("caller"),
		"destination": c.String("destination"),
	})
}

func get(uri string) error {
	client := newClient()

	resp, err := client.Get(uri)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return report(resp.StatusCode, resp.Body)
}

func send(method, uri string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequest(method, uri, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := newClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return report(resp.StatusCode, resp.Body)
}

func newClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.Logger = nil

	return client
}

func report(status int, body io.Reader) error {
	b, err := ioutil.ReadAll(body)
	if err != nil {
		return err
	}

	if len(b) > 0 {
		fmt.Println(string(b))
	}

	if status >= 400 {
		return fmt.Errorf("request failed with status %d", status)
	}

	return nil
}
