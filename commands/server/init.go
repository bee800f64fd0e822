package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/iov-one/versioned/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const appStateKey = "app_state"

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// GenesisFile returns the location of the genesis file in home.
func GenesisFile(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// InitCmd will write the app_state generated by gen into the genesis
// file found in home. A minimal genesis file with a random chain id is
// created if none exists yet. Other tendermint files (validator keys,
// node configuration) are left to `tendermint init`.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	genFile := GenesisFile(home)
	if fileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
	} else {
		if err := writeGenesis(genFile); err != nil {
			return errors.Wrap(err, "cannot create genesis file")
		}
		logger.Info("Generated genesis file", "path", genFile)
	}

	// no app_state, leave like tendermint
	if gen == nil {
		return nil
	}

	options, err := gen(args)
	if err != nil {
		return err
	}
	return addGenesisOptions(genFile, options)
}

func writeGenesis(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	chainID, err := json.Marshal(fmt.Sprintf("test-chain-%s", cmn.RandStr(6)))
	if err != nil {
		return err
	}
	genesisTime, err := json.Marshal(time.Now().UTC())
	if err != nil {
		return err
	}
	return writeDoc(filename, GenesisDoc{
		"chain_id":     chainID,
		"genesis_time": genesisTime,
	})
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	doc[appStateKey] = options
	return writeDoc(filename, doc)
}

func writeDoc(filename string, doc GenesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, out, 0600)
}
